package dbuilder

import (
	"math"
	"os"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/ProteinUniverseAtlas/dbuilder/pkg/log"
)

// rssGB returns the resident set size of this process in gigabytes,
// or zero when it cannot be determined.
func rssGB() float64 {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0
	}
	mi, err := p.MemoryInfo()
	if err != nil || mi == nil {
		return 0
	}
	return math.Round(float64(mi.RSS)/float64(1<<30)*1000) / 1000
}

// logProgress emits the periodic human-readable status line. Purely
// observational; not part of the data contract.
func (e *Extractor) logProgress(res Result, targets *targetSet) {
	fields := []log.Field{
		log.Int("scanned", res.Scanned),
		log.Int("stored", res.Stored),
		log.Float("rss_gb", rssGB()),
	}
	if targets != nil {
		done, total := targets.progress()
		fields = append(fields,
			log.Int("targets_done", done),
			log.Int("targets_total", total),
		)
	}
	e.logger.Info("extraction progress", fields...)
}
