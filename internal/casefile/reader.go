package casefile

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"ames-casefile/internal/config"
	"ames-casefile/internal/model"
)

// Scalar directive keywords. A line is routed by keyword prefix and must then
// split into exactly the keyword and one value.
const (
	kwBaseS               = "BASE_S"
	kwBaseV               = "BASE_V"
	kwMaxDay              = "Max_Day"
	kwRandomSeed          = "Random_Seed"
	kwCapacityMargin      = "Capacity_Margin"
	kwLoadCaseControlFile = "Load_Case_Control_File"
	kwThresholdProb       = "Threshold_Probability"
	kwSCUCType            = "SCUC_Type"
	kwLSEDemandSource     = "LSEDemandSource"
	kwReserveRequirement  = "Reserve_Requirement"
)

// Section markers. Matched exactly.
const (
	markNodeStart         = "#NodeDataStart"
	markNodeEnd           = "#NodeDataEnd"
	markBranchStart       = "#BranchDataStart"
	markBranchEnd         = "#BranchDataEnd"
	markGenStart          = "#GenDataStart"
	markGenEnd            = "#GenDataEnd"
	markAlertGenStart     = "#AlertGenCoStart"
	markAlertGenEnd       = "#AlertGenCoEnd"
	markSCUCStart         = "#ScucInputDataStart"
	markSCUCEnd           = "#ScucInputDataEnd"
	markFixedDemandStart  = "#LSEDataFixedDemandStart"
	markFixedDemandEnd    = "#LSEDataFixedDemandEnd"
	markPriceSensStart    = "#LSEDataPriceSensitiveDemandStart"
	markPriceSensEnd      = "#LSEDataPriceSensitiveDemandEnd"
	markHybridDemandStart = "#LSEDataHybridDemandStart"
	markHybridDemandEnd   = "#LSEDataHybridDemandEnd"
	markLearningStart     = "#GenLearningDataStart"
	markLearningEnd       = "#GenLearningDataEnd"
	markZoneNamesStart    = "#ZoneNamesStart"
	markZoneNamesEnd      = "#ZoneNamesEnd"
	markGenCostStart      = "#GenCostStart"
	markGenCostEnd        = "#GenCostEnd"
	markGenFuelTypeStart  = "#GenFuelTypeStart"
	markGenFuelTypeEnd    = "#GenFuelTypeEnd"
)

// Result is a finished case plus every warning raised while reading it.
type Result struct {
	Case     *model.CaseData
	Warnings []Warning
}

// Reader turns case text into a validated model. A Reader holds only
// settings; each Read call owns its own model, so one Reader can serve
// concurrent callers.
type Reader struct {
	logger     *log.Logger
	defaults   model.LearningDefaults
	sim        model.SimulationParams
	skipFinish bool
}

type Option func(*Reader)

// WithLogger sends warnings to l. Pass a logger writing to io.Discard to
// silence them; they are still returned in the Result.
func WithLogger(l *log.Logger) Option {
	return func(r *Reader) { r.logger = l }
}

// WithDefaults sets the learning vector used when a case has no learning
// section.
func WithDefaults(d model.LearningDefaults) Option {
	return func(r *Reader) { r.defaults = d }
}

// WithSimulation sets the scalar values a case starts from.
func WithSimulation(sim model.SimulationParams) Option {
	return func(r *Reader) { r.sim = sim }
}

// WithConfig takes both the learning defaults and the simulation scalars
// from cfg.
func WithConfig(cfg *config.Config) Option {
	return func(r *Reader) {
		r.defaults = cfg
		r.sim = cfg.SimulationDefaults()
	}
}

// SkipFinish leaves the model exactly as the sections produced it, without
// defaulting or cross-table checks.
func SkipFinish() Option {
	return func(r *Reader) { r.skipFinish = true }
}

func NewReader(opts ...Option) *Reader {
	cfg := config.Default()
	r := &Reader{
		logger:   log.Default(),
		defaults: cfg,
		sim:      cfg.SimulationDefaults(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ReadFile reads the case at path. Relative Load_Case_Control_File values
// are resolved against the case file's directory.
func (r *Reader) ReadFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return r.read(f, path, filepath.Dir(path))
}

// Read reads a case from src. source names the input in errors and warnings.
// On error the returned Result is nil; partial models are never handed out.
func (r *Reader) Read(src io.Reader, source string) (*Result, error) {
	return r.read(src, source, "")
}

// LoadFile reads and finishes the case at path with the built-in defaults.
func LoadFile(path string) (*model.CaseData, error) {
	res, err := NewReader().ReadFile(path)
	if err != nil {
		return nil, err
	}
	return res.Case, nil
}

func (r *Reader) read(src io.Reader, source, dir string) (*Result, error) {
	p := &parser{
		lines:  NewLineSource(src),
		source: source,
		dir:    dir,
		logger: r.logger,
		c:      model.NewCaseData(r.sim),
	}
	if err := p.run(); err != nil {
		return nil, err
	}
	if !r.skipFinish {
		warn := func(format string, args ...any) { p.warnAt(0, format, args...) }
		f := model.Finisher{Defaults: r.defaults, Warn: warn}
		if err := f.Run(p.c); err != nil {
			return nil, &FormatError{Source: source, Msg: err.Error(), Err: err}
		}
	}
	return &Result{Case: p.c, Warnings: p.warnings}, nil
}

// parser is the state of a single Read call.
type parser struct {
	lines  *LineSource
	source string
	dir    string
	logger *log.Logger

	cur      string
	c        *model.CaseData
	warnings []Warning
}

// row is one data line of a section with its physical line number.
type row struct {
	text string
	line int
}

func (r row) fields() []string { return strings.Fields(r.text) }

type directive struct {
	keyword string
	parse   func(p *parser, value string) error
}

var directives = []directive{
	{kwBaseS, (*parser).parseBaseS},
	{kwMaxDay, (*parser).parseMaxDay},
	{kwRandomSeed, (*parser).parseRandomSeed},
	{kwCapacityMargin, (*parser).parseCapacityMargin},
	{kwSCUCType, (*parser).parseSCUCType},
	{kwLSEDemandSource, (*parser).parseLSEDemandSource},
	{kwLoadCaseControlFile, (*parser).parseLoadCaseControlFile},
	{kwThresholdProb, (*parser).parseThresholdProbability},
	{kwBaseV, (*parser).parseBaseV},
	{kwReserveRequirement, (*parser).parseReserveRequirement},
}

type section struct {
	end   string
	parse func(p *parser, rows []row) error
}

var sections = map[string]section{
	markNodeStart:         {markNodeEnd, (*parser).parseNodeData},
	markBranchStart:       {markBranchEnd, (*parser).parseBranchData},
	markGenStart:          {markGenEnd, (*parser).parseGenData},
	markAlertGenStart:     {markAlertGenEnd, (*parser).parseAlertGenCos},
	markSCUCStart:         {markSCUCEnd, (*parser).parseSCUCInputData},
	markFixedDemandStart:  {markFixedDemandEnd, (*parser).parseFixedDemand},
	markPriceSensStart:    {markPriceSensEnd, (*parser).parsePriceSensitiveDemand},
	markHybridDemandStart: {markHybridDemandEnd, (*parser).parseHybridDemand},
	markLearningStart:     {markLearningEnd, (*parser).parseLearningData},
	markZoneNamesStart:    {markZoneNamesEnd, (*parser).parseZoneNames},
	markGenCostStart:      {markGenCostEnd, (*parser).parseGenCosts},
	markGenFuelTypeStart:  {markGenFuelTypeEnd, (*parser).parseGenFuelTypes},
}

func (p *parser) run() error {
	for p.next() {
		if err := p.dispatch(); err != nil {
			return err
		}
	}
	if err := p.lines.Err(); err != nil {
		return fmt.Errorf("read %s: %w", p.source, err)
	}
	return nil
}

func (p *parser) next() bool {
	line, ok := p.lines.Next()
	p.cur = line
	return ok
}

func (p *parser) dispatch() error {
	for _, d := range directives {
		if strings.HasPrefix(p.cur, d.keyword) {
			value, err := p.splitValueFromKey(d.keyword)
			if err != nil {
				return err
			}
			return d.parse(p, value)
		}
	}
	if s, ok := sections[p.cur]; ok {
		rows, err := p.collect(s.end)
		if err != nil {
			return err
		}
		return s.parse(p, rows)
	}
	p.warnf("unknown line %q", p.cur)
	return nil
}

// splitValueFromKey returns the value of a "KEY value" line.
func (p *parser) splitValueFromKey(key string) (string, error) {
	f := strings.Fields(p.cur)
	if len(f) != 2 {
		return "", p.errorf(ErrFieldCount, "expected key/value pair in %q, expected 2 items, found %d", p.cur, len(f))
	}
	if f[0] != key {
		return "", p.errorf(ErrUnexpectedKeyword, "expected key %s in %q, found key %s", key, p.cur, f[0])
	}
	return f[1], nil
}

// collect gathers the rows after a start marker up to the end marker, which
// is consumed.
func (p *parser) collect(end string) ([]row, error) {
	start := p.cur
	startLine := p.lines.Line()
	var rows []row
	for p.next() {
		if p.cur == end {
			return rows, nil
		}
		rows = append(rows, row{text: p.cur, line: p.lines.Line()})
	}
	if err := p.lines.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", p.source, err)
	}
	return nil, &FormatError{
		Source: p.source,
		Line:   startLine,
		Msg:    fmt.Sprintf("%s: unexpected end of file, expected %s", start, end),
		Err:    ErrMissingTerminator,
	}
}

// errorf builds a FormatError at the current line.
func (p *parser) errorf(kind error, format string, args ...any) error {
	return p.errorAt(p.lines.Line(), kind, format, args...)
}

func (p *parser) errorAt(line int, kind error, format string, args ...any) error {
	return &FormatError{
		Source: p.source,
		Line:   line,
		Msg:    fmt.Sprintf(format, args...),
		Err:    kind,
	}
}

// rowError turns a field-level error into a FormatError at r. Errors that
// already carry a kind keep it.
func (p *parser) rowError(r row, err error) error {
	var fe *FormatError
	if errors.As(err, &fe) {
		return err
	}
	kind := ErrBadValue
	switch {
	case errors.Is(err, ErrBadNumber):
		kind = ErrBadNumber
	case errors.Is(err, ErrUnknownZone):
		kind = ErrUnknownZone
	}
	return &FormatError{
		Source: p.source,
		Line:   r.line,
		Msg:    fmt.Sprintf("%v in %q", err, r.text),
		Err:    kind,
	}
}

func (p *parser) warnf(format string, args ...any) {
	p.warnAt(p.lines.Line(), format, args...)
}

func (p *parser) warnAt(line int, format string, args ...any) {
	w := Warning{Source: p.source, Line: line, Message: fmt.Sprintf(format, args...)}
	p.warnings = append(p.warnings, w)
	if p.logger != nil {
		p.logger.Printf("CaseFile: %s", w)
	}
}

func (p *parser) parseBaseS(v string) error {
	f, err := p.float(v)
	p.c.BaseS = f
	return err
}

func (p *parser) parseBaseV(v string) error {
	f, err := p.float(v)
	p.c.BaseV = f
	return err
}

func (p *parser) parseMaxDay(v string) error {
	n, err := parseInt(v)
	if err != nil {
		return p.errorf(ErrBadNumber, "%s: %v", kwMaxDay, err)
	}
	p.c.MaxDay = n
	return nil
}

func (p *parser) parseRandomSeed(v string) error {
	n, err := parseInt64(v)
	if err != nil {
		return p.errorf(ErrBadNumber, "%s: %v", kwRandomSeed, err)
	}
	p.c.RandomSeed = n
	return nil
}

// parseCapacityMargin stores the percentage in the file as a fraction.
func (p *parser) parseCapacityMargin(v string) error {
	f, err := p.float(v)
	p.c.CapacityMargin = f / 100
	return err
}

func (p *parser) parseThresholdProbability(v string) error {
	f, err := p.float(v)
	p.c.ThresholdProbability = f
	return err
}

func (p *parser) parseReserveRequirement(v string) error {
	f, err := p.float(v)
	p.c.ReserveRequirements = f
	return err
}

func (p *parser) parseSCUCType(v string) error {
	switch t := model.SCUCType(v); t {
	case model.SCUCDeterministic, model.SCUCStochastic:
		p.c.SCUCType = t
		return nil
	}
	return p.errorf(ErrBadValue, "unknown SCUC type %s", v)
}

func (p *parser) parseLSEDemandSource(v string) error {
	switch s := model.LSEDemandSource(v); s {
	case model.DemandFromTestCase, model.DemandFromLoadCase:
		p.c.LSEDemandSource = s
		return nil
	}
	return p.errorf(ErrBadValue, "unknown LSE demand data source %s", v)
}

func (p *parser) parseLoadCaseControlFile(v string) error {
	if p.dir != "" && !filepath.IsAbs(v) {
		v = filepath.Join(p.dir, v)
	}
	p.c.LoadCaseControlFile = v
	return nil
}

func (p *parser) float(v string) (float64, error) {
	f, err := parseFloat(v)
	if err != nil {
		return 0, p.errorf(ErrBadNumber, "%v in %q", err, p.cur)
	}
	return f, nil
}
