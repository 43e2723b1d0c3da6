package casefile

import "ames-casefile/internal/model"

// Field counts per section row.
const (
	branchFields       = 5
	genFields          = 9
	scucFields         = 11
	lseFields          = 3 + model.HoursPerSection
	priceSensFields    = 7
	genCostFields      = 5
	fuelTypeFields     = 2
	learningNameFields = model.LearningFields + 1
)

// fieldsN splits r and checks it has exactly n fields.
func (p *parser) fieldsN(r row, n int) ([]string, error) {
	f := r.fields()
	if len(f) != n {
		return nil, p.errorAt(r.line, ErrFieldCount, "expected %d fields in %q, found %d", n, r.text, len(f))
	}
	return f, nil
}

func (p *parser) zone(r row, name string) (int, error) {
	idx, ok := p.c.Zones.Get(name)
	if !ok {
		return 0, p.errorAt(r.line, ErrUnknownZone, "unknown zone name %s", name)
	}
	return idx, nil
}

// numbers parses toks as floats.
func numbers(toks []string) ([]float64, error) {
	out := make([]float64, len(toks))
	for i, t := range toks {
		v, err := parseFloat(t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func integers(toks []string) ([]int, error) {
	out := make([]int, len(toks))
	for i, t := range toks {
		v, err := parseInt(t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// blocks checks that the row count is a multiple of n and returns the
// quotient, which is the number of LSEs in every demand section.
func (p *parser) blocks(rows []row, n int, what string) (int, error) {
	if len(rows)%n != 0 {
		line := p.lines.Line()
		return 0, p.errorAt(line, ErrFieldCount, "%s: %d rows is not a multiple of %d", what, len(rows), n)
	}
	return len(rows) / n, nil
}

// parseNodeData reads the single "NumNodes PenaltyWeight" row.
func (p *parser) parseNodeData(rows []row) error {
	if len(rows) != 1 {
		return p.errorf(ErrFieldCount, "node section: expected 1 row, found %d", len(rows))
	}
	r := rows[0]
	f, err := p.fieldsN(r, 2)
	if err != nil {
		return err
	}
	n, err := parseInt(f[0])
	if err != nil {
		return p.rowError(r, err)
	}
	w, err := parseFloat(f[1])
	if err != nil {
		return p.rowError(r, err)
	}
	p.c.Node = &model.NodeData{NumNodes: n, PenaltyWeight: w}
	return nil
}

// parseBranchData reads "Name From To MaxCap Reactance" rows.
func (p *parser) parseBranchData(rows []row) error {
	branches := make([]model.BranchData, 0, len(rows))
	for _, r := range rows {
		f, err := p.fieldsN(r, branchFields)
		if err != nil {
			return err
		}
		from, err := p.zone(r, f[1])
		if err != nil {
			return err
		}
		to, err := p.zone(r, f[2])
		if err != nil {
			return err
		}
		v, err := numbers(f[3:])
		if err != nil {
			return p.rowError(r, err)
		}
		branches = append(branches, model.BranchData{
			Name:      f[0],
			From:      from,
			To:        to,
			MaxCap:    round4(v[0]),
			Reactance: round4(v[1]),
		})
	}
	p.c.Branches = branches
	return nil
}

// parseGenData reads "Name ID Zone SCost a b CapL CapU InitMoney" rows.
func (p *parser) parseGenData(rows []row) error {
	gens := make([]model.GenData, 0, len(rows))
	seen := make(map[string]int, len(rows))
	for _, r := range rows {
		f, err := p.fieldsN(r, genFields)
		if err != nil {
			return err
		}
		if prev, ok := seen[f[0]]; ok {
			return p.errorAt(r.line, ErrDuplicateName, "generator %s already defined on line %d", f[0], prev)
		}
		seen[f[0]] = r.line

		id, err := parseInt(f[1])
		if err != nil {
			return p.rowError(r, err)
		}
		atBus, err := p.zone(r, f[2])
		if err != nil {
			return err
		}
		v, err := numbers(f[3:])
		if err != nil {
			return p.rowError(r, err)
		}
		g, err := model.NewGenData(f[0], id, atBus, v[0], v[1], v[2], v[3], v[4], v[5])
		if err != nil {
			return p.rowError(r, err)
		}
		gens = append(gens, *g)
	}
	p.c.Generators = gens
	return nil
}

// parseAlertGenCos reads one generator name per row. Names are checked
// against the generator table once the whole case is read.
func (p *parser) parseAlertGenCos(rows []row) error {
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.text
	}
	p.c.AlertGenerators = names
	return nil
}

// parseSCUCInputData reads "Name PowerT0 UnitOnT0 MinUp MinDown RampUp
// RampDown StartupRampLim ShutdownRampLim Schedule Schedule2" rows. A later
// row for the same generator replaces an earlier one.
func (p *parser) parseSCUCInputData(rows []row) error {
	for _, r := range rows {
		f, err := p.fieldsN(r, scucFields)
		if err != nil {
			return err
		}
		v, err := numbers(f[1:])
		if err != nil {
			return p.rowError(r, err)
		}
		ints, err := integers([]string{f[2], f[3], f[4], f[9], f[10]})
		if err != nil {
			return p.rowError(r, err)
		}
		p.c.PutSCUC(f[0], model.SCUCInput{
			PowerT0:         v[0],
			UnitOnT0:        ints[0],
			MinUpTime:       ints[1],
			MinDownTime:     ints[2],
			NominalRampUp:   v[4],
			NominalRampDown: v[5],
			StartupRampLim:  v[6],
			ShutdownRampLim: v[7],
			Schedule1:       ints[3],
			Schedule2:       ints[4],
		})
	}
	return nil
}

// lseHead parses the "Name ID Zone" prefix shared by the demand sections.
func (p *parser) lseHead(r row, f []string) (string, int, int, error) {
	id, err := parseInt(f[1])
	if err != nil {
		return "", 0, 0, p.rowError(r, err)
	}
	bus, err := p.zone(r, f[2])
	if err != nil {
		return "", 0, 0, err
	}
	return f[0], id, bus, nil
}

// parseFixedDemand reads three equal blocks of "Name ID Zone H1..H8" rows,
// one block per 8-hour section. Row i of every block belongs to the same
// LSE; the merged table takes its name, id and zone from the first block.
func (p *parser) parseFixedDemand(rows []row) error {
	n, err := p.blocks(rows, model.NumSections, "fixed demand section")
	if err != nil {
		return err
	}
	var secs [model.NumSections][]model.LSESection
	for s := range secs {
		secs[s] = make([]model.LSESection, n)
	}
	merged := make([]model.LSEData, n)

	for i, r := range rows {
		s, l := i/n, i%n
		f, err := p.fieldsN(r, lseFields)
		if err != nil {
			return err
		}
		name, id, bus, err := p.lseHead(r, f)
		if err != nil {
			return err
		}
		v, err := numbers(f[3:])
		if err != nil {
			return p.rowError(r, err)
		}
		sec := model.LSESection{Name: name, ID: id, AtBus: bus}
		for h := range sec.Demand {
			d := round4(v[h])
			sec.Demand[h] = d
			merged[l].Demand[s*model.HoursPerSection+h] = d
		}
		secs[s][l] = sec
		if s == 0 {
			merged[l].Name, merged[l].ID, merged[l].AtBus = name, id, bus
		}
	}

	p.c.LSESections = secs
	p.c.LSE = merged
	p.c.NumLSE = n
	return nil
}

// parsePriceSensitiveDemand reads blocks of 24 "Name ID Zone Hour c d SLMax"
// rows, one block per LSE.
func (p *parser) parsePriceSensitiveDemand(rows []row) error {
	n, err := p.blocks(rows, model.HoursPerDay, "price-sensitive demand section")
	if err != nil {
		return err
	}
	demand := make([]model.PriceSensitiveDemand, n)
	for i, r := range rows {
		l, h := i/model.HoursPerDay, i%model.HoursPerDay
		f, err := p.fieldsN(r, priceSensFields)
		if err != nil {
			return err
		}
		name, id, bus, err := p.lseHead(r, f)
		if err != nil {
			return err
		}
		hour, err := parseInt(f[3])
		if err != nil {
			return p.rowError(r, err)
		}
		v, err := numbers(f[4:])
		if err != nil {
			return p.rowError(r, err)
		}
		if h > 0 {
			first := demand[l][0]
			if name != first.Name || id != first.ID {
				return p.errorAt(r.line, ErrBadValue,
					"price-sensitive demand: hour row for %s (id %d) inside the block of %s (id %d)",
					name, id, first.Name, first.ID)
			}
		}
		demand[l][h] = model.PriceSensitiveHour{
			Name:  name,
			ID:    id,
			AtBus: bus,
			Hour:  hour,
			C:     v[0],
			D:     v[1],
			SLMax: v[2],
		}
	}
	p.c.PriceSensitive = demand
	p.c.NumLSE = len(demand)
	return nil
}

// parseHybridDemand has the layout of the fixed demand section, but each
// hourly column is an integer demand-type flag.
func (p *parser) parseHybridDemand(rows []row) error {
	n, err := p.blocks(rows, model.NumSections, "hybrid demand section")
	if err != nil {
		return err
	}
	hybrid := make([]model.HybridDemand, n)
	for i, r := range rows {
		s, l := i/n, i%n
		f, err := p.fieldsN(r, lseFields)
		if err != nil {
			return err
		}
		name, id, bus, err := p.lseHead(r, f)
		if err != nil {
			return err
		}
		flags, err := integers(f[3:])
		if err != nil {
			return p.rowError(r, err)
		}
		copy(hybrid[l].Flags[s*model.HoursPerSection:], flags)
		if s == 0 {
			hybrid[l].Name, hybrid[l].ID, hybrid[l].AtBus = name, id, bus
		}
	}
	p.c.Hybrid = hybrid
	p.c.NumLSE = n
	return nil
}

// parseLearningData reads one row of 12 numbers per generator, in generator
// table order. A row may start with a generator name label, which is ignored.
func (p *parser) parseLearningData(rows []row) error {
	learning := make([]model.LearningParams, 0, len(rows))
	for _, r := range rows {
		f := r.fields()
		switch len(f) {
		case model.LearningFields:
		case learningNameFields:
			f = f[1:]
		default:
			return p.errorAt(r.line, ErrFieldCount, "expected %d fields in %q, found %d",
				model.LearningFields, r.text, len(f))
		}
		v, err := numbers(f)
		if err != nil {
			return p.rowError(r, err)
		}
		lp, err := model.LearningFromVector(v)
		if err != nil {
			return p.rowError(r, err)
		}
		learning = append(learning, lp)
	}
	p.c.Learning = learning
	p.c.HasLearningData = true
	return nil
}

// parseZoneNames assigns 1..N to the listed zones in order.
func (p *parser) parseZoneNames(rows []row) error {
	for i, r := range rows {
		if err := p.c.Zones.Put(r.text, i+1); err != nil {
			return &FormatError{Source: p.source, Line: r.line, Msg: err.Error(), Err: err}
		}
	}
	return nil
}

// parseGenCosts reads "Name NoLoad ColdStartUp HotStartUp ShutDown" rows.
func (p *parser) parseGenCosts(rows []row) error {
	for _, r := range rows {
		f, err := p.fieldsN(r, genCostFields)
		if err != nil {
			return err
		}
		v, err := numbers(f[1:])
		if err != nil {
			return p.rowError(r, err)
		}
		p.c.PutGenCost(f[0], model.GenCost{
			NoLoad:      v[0],
			ColdStartUp: v[1],
			HotStartUp:  v[2],
			ShutDown:    v[3],
		})
	}
	return nil
}

func (p *parser) parseGenFuelTypes(rows []row) error {
	for _, r := range rows {
		f, err := p.fieldsN(r, fuelTypeFields)
		if err != nil {
			return err
		}
		p.c.PutFuelType(f[0], f[1])
	}
	return nil
}
