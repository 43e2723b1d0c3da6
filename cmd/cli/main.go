package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"ames-casefile/internal/analysis"
	"ames-casefile/internal/casefile"
	"ames-casefile/internal/config"
	"ames-casefile/internal/data"
	"ames-casefile/internal/report"
	"ames-casefile/internal/strategy"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "parse":
		cmdParse(os.Args[2:])
	case "summary":
		cmdSummary(os.Args[2:])
	case "lattice":
		cmdLattice(os.Args[2:])
	case "tables":
		cmdTables(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli parse --case DATA/5BusTestCase.dat [--config examples/config.yaml] [--json results/case.json] [--no-finish]")
	fmt.Println("  cli summary --case DATA/5BusTestCase.dat")
	fmt.Println("  cli lattice --m1 10 --m2 10 --m3 1 --rimaxl 0.75 --rimaxu 0.75 --riminc 1 [--out results/lattice.csv]")
	fmt.Println("  cli lattice --case DATA/5BusTestCase.dat --gen GenCo1")
	fmt.Println("  cli tables --case DATA/5BusTestCase.dat --out results")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - format errors are printed as file:line: message and exit with status 1")
	fmt.Println("  - learning defaults come from --config when the case has no GenLearningData section")
}

func loadConfig(path string) *config.Config {
	if path == "" {
		return config.Default()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fail(err)
	}
	return cfg
}

func readCase(path string, cfg *config.Config, opts ...casefile.Option) *casefile.Result {
	if path == "" {
		fmt.Println("--case is required")
		os.Exit(2)
	}
	opts = append([]casefile.Option{casefile.WithConfig(cfg)}, opts...)
	res, err := casefile.NewReader(opts...).ReadFile(path)
	if err != nil {
		fail(err)
	}
	return res
}

// fail prints format errors as-is and exits non-zero.
func fail(err error) {
	var fe *casefile.FormatError
	if errors.As(err, &fe) {
		fmt.Fprintln(os.Stderr, fe.Error())
	} else {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	os.Exit(1)
}

func cmdParse(args []string) {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)
	casePath := fs.String("case", "", "Path to the test case file")
	cfgPath := fs.String("config", "", "Path to YAML config")
	jsonPath := fs.String("json", "", "Optional: write the parsed case as JSON")
	noFinish := fs.Bool("no-finish", false, "Skip defaulting and cross-table checks")
	quiet := fs.Bool("quiet", false, "Do not log warnings while reading")
	_ = fs.Parse(args)

	cfg := loadConfig(*cfgPath)
	var opts []casefile.Option
	if *noFinish {
		opts = append(opts, casefile.SkipFinish())
	}
	if *quiet {
		opts = append(opts, casefile.WithLogger(log.New(io.Discard, "", 0)))
	}
	res := readCase(*casePath, cfg, opts...)
	c := res.Case

	fmt.Printf("Case %s\n", *casePath)
	fmt.Printf("  zones=%d branches=%d generators=%d lses=%d\n", c.Zones.NumZones(), len(c.Branches), len(c.Generators), c.NumLSE)
	fmt.Printf("  learning rows=%d (from case: %v) price-sensitive=%d hybrid=%d\n", len(c.Learning), c.HasLearningData, len(c.PriceSensitive), len(c.Hybrid))
	fmt.Printf("  scuc=%s demand=%s max_day=%d seed=%d margin=%.2f\n", c.SCUCType, c.LSEDemandSource, c.MaxDay, c.RandomSeed, c.CapacityMargin)
	if len(res.Warnings) > 0 {
		fmt.Printf("%d warning(s):\n", len(res.Warnings))
		for _, w := range res.Warnings {
			fmt.Printf("  %s\n", w)
		}
	}

	if *jsonPath != "" {
		if err := os.MkdirAll(filepath.Dir(*jsonPath), 0o755); err != nil {
			panic(err)
		}
		if err := data.SaveCaseJSON(*jsonPath, c); err != nil {
			panic(err)
		}
		fmt.Printf("Wrote %s\n", *jsonPath)
	}
}

func cmdSummary(args []string) {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	casePath := fs.String("case", "", "Path to the test case file")
	cfgPath := fs.String("config", "", "Path to YAML config")
	_ = fs.Parse(args)

	res := readCase(*casePath, loadConfig(*cfgPath), casefile.WithLogger(log.New(io.Discard, "", 0)))

	ranked := analysis.RankByHeadroom(res.Case)
	fmt.Printf("%-4s %-12s %-5s %-5s %-10s %-10s %-10s %-10s\n", "rank", "zone", "gens", "lses", "cap_u", "peak", "mean", "headroom")
	for _, z := range ranked {
		fmt.Printf(
			"%-4d %-12s %-5d %-5d %-10.2f %-10.2f %-10.2f %-10.2f\n",
			z.Rank,
			z.Zone,
			z.Generators,
			z.LSEs,
			z.CapU,
			z.PeakDemand,
			z.MeanDemand,
			z.Headroom,
		)
	}

	a := analysis.CheckAdequacy(res.Case)
	fmt.Printf("\nTotal capacity=%.2f MW Peak demand=%.2f MW (hour %d)\n", a.TotalCapU, a.PeakDemand, a.PeakHour)
	fmt.Printf("Required with %.0f%% margin=%.2f MW Surplus=%.2f MW Adequate=%v\n", a.CapacityMargin*100, a.Required, a.Surplus, a.Adequate)
}

func cmdLattice(args []string) {
	fs := flag.NewFlagSet("lattice", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config (defaults for omitted flags)")
	casePath := fs.String("case", "", "Optional: take the parameters from a case file")
	gen := fs.String("gen", "", "Generator name, with --case")
	m1 := fs.Int("m1", 0, "Lower range index steps")
	m2 := fs.Int("m2", 0, "Upper range index steps")
	m3 := fs.Int("m3", 0, "Upper relative capacity steps")
	riMaxL := fs.Float64("rimaxl", -1, "Max lower range index, [0,1)")
	riMaxU := fs.Float64("rimaxu", -1, "Max upper range index, [0,1)")
	riMinC := fs.Float64("riminc", -1, "Min relative capacity, (0,1]")
	outPath := fs.String("out", "", "Optional: output CSV path (default stdout)")
	_ = fs.Parse(args)

	cfg := loadConfig(*cfgPath)
	p := strategy.ParamsFromLearning(cfg.DefaultLearning())
	if *casePath != "" {
		if *gen == "" {
			fmt.Println("--gen is required with --case")
			os.Exit(2)
		}
		res := readCase(*casePath, cfg, casefile.WithLogger(log.New(io.Discard, "", 0)))
		lp, err := res.Case.LearningFor(*gen)
		if err != nil {
			fail(err)
		}
		p = strategy.ParamsFromLearning(lp)
	}

	// explicit flags win over case and config values
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "m1":
			p.M1 = *m1
		case "m2":
			p.M2 = *m2
		case "m3":
			p.M3 = *m3
		case "rimaxl":
			p.RIMaxL = *riMaxL
		case "rimaxu":
			p.RIMaxU = *riMaxU
		case "riminc":
			p.RIMinC = *riMinC
		}
	})

	ad, err := strategy.NewActionDomain(p)
	if err != nil {
		fail(err)
	}

	if *outPath == "" {
		if err := report.WriteActionDomainCSV(os.Stdout, ad); err != nil {
			panic(err)
		}
		return
	}
	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		panic(err)
	}
	if err := report.SaveCSV(*outPath, func(w io.Writer) error { return report.WriteActionDomainCSV(w, ad) }); err != nil {
		panic(err)
	}
	fmt.Printf("Wrote %d actions to %s\n", len(ad), *outPath)
}

func cmdTables(args []string) {
	fs := flag.NewFlagSet("tables", flag.ExitOnError)
	casePath := fs.String("case", "", "Path to the test case file")
	cfgPath := fs.String("config", "", "Path to YAML config")
	outDir := fs.String("out", "results", "Output directory")
	_ = fs.Parse(args)

	res := readCase(*casePath, loadConfig(*cfgPath), casefile.WithLogger(log.New(io.Discard, "", 0)))
	c := res.Case

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		panic(err)
	}
	gensPath := filepath.Join(*outDir, "generators.csv")
	if err := report.SaveCSV(gensPath, func(w io.Writer) error { return report.WriteGeneratorsCSV(w, c.Generators) }); err != nil {
		panic(err)
	}
	branchesPath := filepath.Join(*outDir, "branches.csv")
	if err := report.SaveCSV(branchesPath, func(w io.Writer) error { return report.WriteBranchesCSV(w, c.Branches, c.Zones) }); err != nil {
		panic(err)
	}

	fmt.Printf("Wrote %d rows to %s\n", len(c.Generators), gensPath)
	fmt.Printf("Wrote %d rows to %s\n", len(c.Branches), branchesPath)
}
