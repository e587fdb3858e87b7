package vcf

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Parser reads genotype call records from a VCF file.
type Parser struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	lineNumber int
	header     []string
}

// NewParser creates a parser for the given file. Plain and gzipped
// (.vcf.gz) inputs are supported; gzip is detected from the magic
// bytes, not the file name.
func NewParser(path string) (*Parser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vcf file: %w", err)
	}

	p := &Parser{file: file}

	buf := make([]byte, 2)
	if _, err := file.Read(buf); err != nil {
		file.Close()
		return nil, fmt.Errorf("read vcf header: %w", err)
	}
	if _, err := file.Seek(0, 0); err != nil {
		file.Close()
		return nil, fmt.Errorf("seek vcf file: %w", err)
	}

	// Gzip magic number (0x1f, 0x8b).
	if buf[0] == 0x1f && buf[1] == 0x8b {
		var err error
		p.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		p.reader = bufio.NewReader(p.gzipReader)
	} else {
		p.reader = bufio.NewReader(file)
	}

	if err := p.parseHeader(); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

// NewParserFromReader creates a parser from an io.Reader.
func NewParserFromReader(r io.Reader) (*Parser, error) {
	p := &Parser{reader: bufio.NewReader(r)}
	if err := p.parseHeader(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) parseHeader() error {
	for {
		line, err := p.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("read header: %w", err)
		}
		p.lineNumber++

		line = strings.TrimRight(line, "\r\n")

		if strings.HasPrefix(line, "##") {
			p.header = append(p.header, line)
			continue
		}
		if strings.HasPrefix(line, "#CHROM") {
			p.header = append(p.header, line)
			return nil
		}
		return &ParseError{Line: p.lineNumber, Message: "expected #CHROM header line"}
	}
	return &ParseError{Line: p.lineNumber, Message: "no #CHROM header line found"}
}

// Next reads the next call site from the file and returns one record
// per alternate content, with IsPrimary set on the highest-frequency
// alternate of the site. Returns nil, nil at end of input.
func (p *Parser) Next() ([]Record, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read variant line: %w", err)
	}
	p.lineNumber++

	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return p.Next()
	}
	return p.parseLine(line)
}

func (p *Parser) parseLine(line string) ([]Record, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 8 {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("expected at least 8 columns, found %d", len(fields)),
		}
	}

	pos, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("invalid position: %s", fields[1]),
		}
	}

	qual := 0.0
	if fields[5] != "." {
		qual, _ = strconv.ParseFloat(fields[5], 64)
	}

	info := parseInfo(fields[7])
	depth := infoFloat(info, "DP")
	frequencies := infoFloats(info, "AF")

	alts := strings.Split(fields[4], ",")
	records := make([]Record, 0, len(alts))
	primary := 0
	for i, alt := range alts {
		if alt == "." || alt == "" {
			continue
		}
		frequency := 0.0
		if i < len(frequencies) {
			frequency = frequencies[i]
		}
		records = append(records, Record{
			Contig:    fields[0],
			Position:  pos,
			Ref:       fields[3],
			Alt:       alt,
			Depth:     depth,
			Frequency: frequency,
			Quality:   qual,
		})
		if frequency > records[primary].Frequency {
			primary = len(records) - 1
		}
	}
	if len(records) > 0 {
		records[primary].IsPrimary = true
	}
	return records, nil
}

func parseInfo(info string) map[string]string {
	result := make(map[string]string)
	if info == "." {
		return result
	}
	for _, kv := range strings.Split(info, ";") {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) == 2 {
			result[parts[0]] = parts[1]
		} else {
			result[parts[0]] = "true"
		}
	}
	return result
}

func infoFloat(info map[string]string, key string) float64 {
	v, ok := info[key]
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

// infoFloats parses a comma-separated per-alternate float field.
func infoFloats(info map[string]string, key string) []float64 {
	v, ok := info[key]
	if !ok {
		return nil
	}
	parts := strings.Split(v, ",")
	values := make([]float64, 0, len(parts))
	for _, part := range parts {
		f, err := strconv.ParseFloat(part, 64)
		if err != nil {
			f = 0
		}
		values = append(values, f)
	}
	return values
}

// Header returns the raw header lines.
func (p *Parser) Header() []string {
	return p.header
}

// LineNumber returns the current line number being processed.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// Close closes the parser and the underlying file.
func (p *Parser) Close() error {
	if p.gzipReader != nil {
		p.gzipReader.Close()
	}
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// ParseError is a VCF parsing failure with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("vcf parse error at line %d: %s", e.Line, e.Message)
}
