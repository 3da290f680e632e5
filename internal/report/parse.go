package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/drakos74/bitrate/internal/model"
)

var (
	MissingStartErr  = errors.New("missing start of plot section")
	MissingEndErr    = errors.New("missing end of plot section")
	MalformedLineErr = errors.New("malformed line")
)

type state int

const (
	seekingStart state = iota
	inSection
	inClass
	done
)

// parser is the state machine reading the replot section.
type parser struct {
	state   state
	line    int
	current model.Class
	classes []model.Class
}

func (p *parser) close() {
	if len(p.current) > 0 {
		p.classes = append(p.classes, p.current)
	}
	p.current = nil
}

func (p *parser) next(line string) error {
	p.line++
	switch p.state {
	case seekingStart:
		if strings.HasPrefix(line, PlotStart) {
			p.state = inSection
		}
	case inSection, inClass:
		switch {
		case strings.HasPrefix(line, PlotDone):
			p.close()
			p.state = done
		case strings.HasPrefix(line, PlotClass):
			p.close()
			p.state = inClass
		default:
			r, err := ParseLine(line)
			if err != nil {
				return fmt.Errorf("line %d: %w", p.line, err)
			}
			// data before any class sentinel still forms a class
			p.current = append(p.current, r)
			p.state = inClass
		}
	}
	return nil
}

// Parse reads the classes back from the replot section of a report.
// Parsed results carry no model path.
func Parse(r io.Reader) ([]model.Class, error) {
	p := &parser{
		state:   seekingStart,
		classes: make([]model.Class, 0),
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for p.state != done && scanner.Scan() {
		if err := p.next(strings.TrimRight(scanner.Text(), "\r")); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read report: %w", err)
	}
	switch p.state {
	case seekingStart:
		return nil, MissingStartErr
	case inSection, inClass:
		return nil, MissingEndErr
	}
	return p.classes, nil
}

// ParseFile reads the classes from the given report file.
func ParseFile(path string) ([]model.Class, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open report '%s': %w", path, err)
	}
	defer f.Close()
	classes, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("could not parse report '%s': %w", path, err)
	}
	return classes, nil
}

// ParseLine parses one '<psize>,<ncodes>,<dist>' line.
func ParseLine(line string) (model.Result, error) {
	parts := strings.Split(line, ",")
	if len(parts) != 3 {
		return model.Result{}, fmt.Errorf("expected 3 values in '%s': %w", line, MalformedLineErr)
	}
	psize, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return model.Result{}, fmt.Errorf("invalid pattern size in '%s': %w", line, MalformedLineErr)
	}
	ncodes, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return model.Result{}, fmt.Errorf("invalid codebook size in '%s': %w", line, MalformedLineErr)
	}
	dist, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
	if err != nil {
		return model.Result{}, fmt.Errorf("invalid distortion in '%s': %w", line, MalformedLineErr)
	}
	return model.NewResult(psize, ncodes, dist, ""), nil
}
