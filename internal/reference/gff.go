package reference

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/svbio/varcat/internal/errs"
)

// GFFRecord is one parsed line of a GFF3 annotation.
type GFFRecord struct {
	Contig     string
	Source     string
	Type       string
	Start      int // 1-based inclusive
	End        int // 1-based inclusive
	Score      string
	Strand     string
	Phase      string
	Attributes map[string]string
}

// Annotation is a queryable set of GFF3 records.
type Annotation struct {
	records []GFFRecord
}

// ReadGFF parses a GFF3 file (plain or gzipped). Malformed lines are
// skipped; coordinates are taken verbatim as 1-based inclusive.
func ReadGFF(path string) (*Annotation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &errs.IOError{Path: path, Err: err}
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	return parseGFF(reader)
}

func parseGFF(reader io.Reader) (*Annotation, error) {
	scanner := bufio.NewScanner(reader)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	a := &Annotation{}
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// The FASTA section terminates the annotation body.
		if strings.HasPrefix(line, ">") {
			break
		}
		rec, ok := parseGFFLine(line)
		if !ok {
			continue
		}
		a.records = append(a.records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan gff: %w", err)
	}
	return a, nil
}

func parseGFFLine(line string) (GFFRecord, bool) {
	fields := strings.Split(line, "\t")
	if len(fields) < 9 {
		return GFFRecord{}, false
	}
	start, err1 := strconv.Atoi(fields[3])
	end, err2 := strconv.Atoi(fields[4])
	if err1 != nil || err2 != nil {
		return GFFRecord{}, false
	}
	return GFFRecord{
		Contig:     fields[0],
		Source:     fields[1],
		Type:       fields[2],
		Start:      start,
		End:        end,
		Score:      fields[5],
		Strand:     fields[6],
		Phase:      fields[7],
		Attributes: parseAttributes(fields[8]),
	}, true
}

// parseAttributes parses the GFF3 column-9 `key=value;` list.
// Percent-encoded values are decoded.
func parseAttributes(s string) map[string]string {
	attributes := make(map[string]string)
	for _, kv := range strings.Split(s, ";") {
		kv = strings.TrimSpace(kv)
		if kv == "" {
			continue
		}
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			continue
		}
		value := parts[1]
		if decoded, err := url.QueryUnescape(value); err == nil {
			value = decoded
		}
		attributes[parts[0]] = value
	}
	return attributes
}

// SelectByAttribute returns all records whose attribute key equals
// value.
func (a *Annotation) SelectByAttribute(key, value string) []GFFRecord {
	var matches []GFFRecord
	for _, rec := range a.records {
		if rec.Attributes[key] == value {
			matches = append(matches, rec)
		}
	}
	return matches
}

// Len returns the number of parsed records.
func (a *Annotation) Len() int {
	return len(a.records)
}
