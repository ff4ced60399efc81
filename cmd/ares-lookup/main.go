package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/webnazakazku/Ares"
	"github.com/webnazakazku/Ares/internal/platform/config"
	perr "github.com/webnazakazku/Ares/internal/platform/errors"
	"github.com/webnazakazku/Ares/internal/platform/logger"
)

func main() {
	var (
		name    = flag.String("name", "", "search by company name instead of id")
		city    = flag.String("city", "", "narrow a name search to a city")
		res     = flag.Bool("res", false, "resolve through the legacy detail source")
		tax     = flag.Bool("tax", false, "resolve the tax id only")
		people  = flag.Bool("people", false, "list company people from the judicial register")
		asJSON  = flag.Bool("json", false, "print raw JSON instead of text")
		timeout = flag.Duration("timeout", 30*time.Second, "overall deadline")
	)
	flag.Parse()

	logger.Init(logger.FromEnv())
	cfg := config.New().Prefix("ARES_")

	client, err := ares.New(ares.Config{
		CacheDir:           cfg.MayString("CACHE_DIR", ""),
		CacheEpochFormat:   cfg.MayString("CACHE_EPOCH", ""),
		Balancer:           cfg.MayString("BALANCER", ""),
		Debug:              cfg.MayBool("DEBUG", false),
		InsecureSkipVerify: cfg.MayBool("INSECURE_SKIP_VERIFY", false),
	})
	if err != nil {
		fail(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	switch {
	case *name != "":
		recs, err := client.FindByName(ctx, *name, *city)
		if err != nil {
			fail(err)
		}
		if *asJSON {
			printJSON(recs)
			return
		}
		for _, r := range recs {
			fmt.Printf("%s\t%s\t%s\n", r.CompanyID, r.TaxID, r.CompanyName)
		}

	case *people:
		ppl, err := client.CompanyPeople(ctx, flag.Arg(0))
		if err != nil {
			fail(err)
		}
		if *asJSON {
			printJSON(ppl)
			return
		}
		for _, p := range ppl {
			fmt.Printf("%s\t%s\n", p.Role, p.Name)
		}

	case *tax:
		t, err := client.FindTaxID(ctx, flag.Arg(0))
		if err != nil {
			fail(err)
		}
		if *asJSON {
			printJSON(t)
			return
		}
		fmt.Println(t.TaxID)

	default:
		var (
			rec  *ares.Record
			rerr error
		)
		if *res {
			rec, rerr = client.FindByResID(ctx, flag.Arg(0))
		} else {
			rec, rerr = client.FindByCompanyID(ctx, flag.Arg(0))
		}
		if rerr != nil {
			fail(rerr)
		}
		if *asJSON {
			printJSON(rec)
			return
		}
		fmt.Println(rec.CompanyName)
		fmt.Println(rec.FullAddress())
		if rec.TaxID != "" {
			fmt.Println(rec.TaxID)
		}
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// fail prints the resolver message and exits with a code per error class,
// 2 for bad input, 3 for not found, 4 for upstream trouble
func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	switch {
	case perr.IsInvalidArgument(err):
		os.Exit(2)
	case perr.IsNotFound(err):
		os.Exit(3)
	case perr.IsUnavailable(err), perr.IsMalformed(err):
		os.Exit(4)
	default:
		os.Exit(1)
	}
}
