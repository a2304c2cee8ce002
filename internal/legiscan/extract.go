package legiscan

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"log"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/ezlaw/ezlaw/internal/jsonvalue"
	"github.com/ezlaw/ezlaw/internal/progress"
)

// maxFileBytes bounds a single document inside the archive.
const maxFileBytes = 64 << 20

type archive struct {
	total int
	names []string
	docs  *orderedmap.OrderedMap[string, jsonvalue.Value]
}

// extract decodes a base64 zip and parses the first maxFiles .json entries
// matching include. Entries that fail to parse are logged and skipped; they
// still count against maxFiles.
func extract(encoded string, include []string, maxFiles int, reporter progress.Reporter) (*archive, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decoding zip data: %w", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("opening zip archive: %w", err)
	}
	log.Printf("legiscan: found %d files in zip", len(zr.File))

	selected, err := selectFiles(zr.File, include, maxFiles)
	if err != nil {
		return nil, err
	}

	a := &archive{
		total: len(zr.File),
		docs:  orderedmap.New[string, jsonvalue.Value](),
	}

	reporter.Start(len(selected))
	defer reporter.Finish()

	for i, f := range selected {
		reporter.Update(i+1, path.Base(f.Name))
		doc, err := readDocument(f)
		if err != nil {
			log.Printf("legiscan: error processing %s: %v", f.Name, err)
			continue
		}
		name := path.Base(f.Name)
		a.docs.Set(name, doc)
		a.names = append(a.names, name)
	}
	return a, nil
}

func selectFiles(files []*zip.File, include []string, maxFiles int) ([]*zip.File, error) {
	var out []*zip.File
	for _, f := range files {
		if maxFiles > 0 && len(out) >= maxFiles {
			break
		}
		if !strings.HasSuffix(f.Name, ".json") {
			continue
		}
		ok, err := matchAny(include, f.Name)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, f)
		}
	}
	return out, nil
}

// matchAny reports whether name matches one of patterns. No patterns
// matches everything.
func matchAny(patterns []string, name string) (bool, error) {
	if len(patterns) == 0 {
		return true, nil
	}
	for _, p := range patterns {
		ok, err := doublestar.Match(p, name)
		if err != nil {
			return false, fmt.Errorf("include pattern %q: %w", p, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func readDocument(f *zip.File) (jsonvalue.Value, error) {
	rc, err := f.Open()
	if err != nil {
		return jsonvalue.Value{}, err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxFileBytes+1))
	if err != nil {
		return jsonvalue.Value{}, err
	}
	if len(data) > maxFileBytes {
		return jsonvalue.Value{}, fmt.Errorf("file larger than %d bytes", maxFileBytes)
	}
	return jsonvalue.Parse(data)
}
