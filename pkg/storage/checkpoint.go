package storage

import (
	"bufio"
	"encoding/gob"
	"fmt"
	"os"
)

// snapshotPath derives the checkpoint file name from the base name and
// a save sequence number. The sequence number only grows, so every
// save point gets a distinct path.
func snapshotPath(base string, seq int) string {
	return fmt.Sprintf("%s_%d.obj", base, seq)
}

// writeSnapshot gob-encodes v to path atomically: write to a temp
// file, then rename over the target.
func writeSnapshot(path string, v any) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(f).Encode(v); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// readSnapshot gob-decodes the file at path into v.
func readSnapshot(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewDecoder(f).Decode(v)
}

// appendIndex appends one "accession<TAB>snapshot" line per accession
// to the base.INDEX file, creating it on first use. The index file is
// append-only across runs.
func appendIndex(base, snapshot string, acs []string) error {
	if len(acs) == 0 {
		return nil
	}
	f, err := os.OpenFile(base+".INDEX", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	for _, ac := range acs {
		fmt.Fprintf(w, "%s\t%s\n", ac, snapshot)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
