package report

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"ames-casefile/internal/model"
	"ames-casefile/internal/strategy"

	"github.com/shopspring/decimal"
)

func WriteGeneratorsCSV(w io.Writer, gens []model.GenData) error {
	cw := csv.NewWriter(w)
	header := []string{
		"name",
		"id",
		"at_bus",
		"startup_cost",
		"a",
		"b",
		"cap_l",
		"cap_u",
		"init_money",
		"is_canary",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, g := range gens {
		row := []string{
			g.Name,
			strconv.Itoa(g.ID),
			strconv.Itoa(g.AtBus),
			fmtFloat(g.StartupCost),
			fmtFloat(g.A),
			fmtFloat(g.B),
			fmtFloat(g.CapL),
			fmtFloat(g.CapU),
			fmtFloat(g.InitMoney),
			strconv.FormatBool(g.IsCanary),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteBranchesCSV writes branch endpoints by zone name when zones is
// non-nil, and by index otherwise.
func WriteBranchesCSV(w io.Writer, branches []model.BranchData, zones *model.ZoneIndex) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"name", "from", "to", "max_cap", "reactance"}); err != nil {
		return err
	}
	zone := func(idx int) string {
		if zones != nil {
			if name, ok := zones.Name(idx); ok {
				return name
			}
		}
		return strconv.Itoa(idx)
	}
	for _, b := range branches {
		row := []string{b.Name, zone(b.From), zone(b.To), fmtFloat(b.MaxCap), fmtFloat(b.Reactance)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteActionDomainCSV(w io.Writer, ad []strategy.Action) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"index", "lower_ri", "upper_ri", "upper_rcap"}); err != nil {
		return err
	}
	for i, a := range ad {
		row := []string{strconv.Itoa(i), fmtFloat(a.LowerRI), fmtFloat(a.UpperRI), fmtFloat(a.UpperRCap)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV creates path and hands it to write.
func SaveCSV(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func fmtFloat(x float64) string {
	return decimal.NewFromFloat(x).StringFixed(4)
}
