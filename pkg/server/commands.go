package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"DemandCast/internal/domain/models"
	"DemandCast/internal/insights"
	"DemandCast/internal/upload"
	"DemandCast/pkg/util"
)

const prompt = "demandcast> "

var errQuit = errors.New("quit")

// interact runs the interactive loop until quit, EOF or cancellation.
func (a *App) interact(ctx context.Context) error {
	fmt.Println("DemandCast — demand forecasting client. Type 'help' for commands.")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(prompt)
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if err := a.execute(ctx, line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			fmt.Println(err.Error())
		}
	}
}

// execute dispatches one command line.
func (a *App) execute(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "help":
		a.printHelp()
	case "quit", "exit":
		return errQuit
	case "login":
		return a.cmdLogin(ctx, args)
	case "signup":
		return a.cmdSignup(ctx, args)
	case "logout":
		a.sessions.SignOut()
		fmt.Println("Signed out.")
	case "whoami":
		a.cmdWhoami()
	case "features":
		a.cmdFeatures(ctx)
	case "set":
		return a.cmdSet(args)
	case "forecast":
		return a.cmdForecast(ctx)
	case "history":
		a.cmdHistory()
	case "show":
		return a.cmdShow(args)
	case "insights":
		return a.cmdInsights(ctx)
	case "upload":
		return a.cmdUpload(ctx, args)
	case "sample":
		return a.cmdSample(args)
	case "toasts":
		a.cmdToasts()
	default:
		return fmt.Errorf("unknown command %q; type 'help'", cmd)
	}
	return nil
}

func (a *App) printHelp() {
	fmt.Print(`Commands:
  login EMAIL PASSWORD          sign in
  signup EMAIL PASSWORD [NAME]  create an account and sign in
  logout                        sign out and clear cached forecasts
  whoami                        show the signed-in user
  features                      list cities, categories and products
  set city|category|product V   set a forecast filter
  set days 30|60|90             set the forecast horizon
  forecast                      run a forecast for the current filters
  history                       list recent forecasts
  show N                        display recent forecast number N
  insights                      show the business insights report
  upload FILE                   validate and upload a sales dataset CSV
  sample FILE                   write a sample dataset CSV
  toasts                        list active notifications
  quit                          exit
`)
}

func (a *App) cmdLogin(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: login EMAIL PASSWORD")
	}
	if res := a.sessions.SignIn(ctx, args[0], args[1]); res != nil {
		return fmt.Errorf("%s", res.DetailMessage("Sign in failed"))
	}
	a.cmdWhoami()
	return nil
}

func (a *App) cmdSignup(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: signup EMAIL PASSWORD [NAME]")
	}
	name := ""
	if len(args) > 2 {
		name = strings.Join(args[2:], " ")
	}
	if res := a.sessions.SignUp(ctx, args[0], args[1], name); res != nil {
		return fmt.Errorf("%s", res.DetailMessage("Sign up failed"))
	}
	if res := a.sessions.SignIn(ctx, args[0], args[1]); res != nil {
		return fmt.Errorf("%s", res.DetailMessage("Sign in failed"))
	}
	a.cmdWhoami()
	return nil
}

func (a *App) cmdWhoami() {
	s := a.sessions.Current()
	if s == nil {
		fmt.Println("Not signed in.")
		return
	}
	name := s.User.Username
	if name == "" {
		name = s.User.Email
	}
	fmt.Printf("Signed in as %s <%s>\n", name, s.User.Email)
}

func (a *App) cmdFeatures(ctx context.Context) {
	cat := a.catalog.Catalog()
	if cat.Empty() {
		if err := a.catalog.Load(ctx); err != nil {
			fmt.Println("Feature catalog is unavailable.")
			return
		}
		cat = a.catalog.Catalog()
	}

	sel := a.catalog.Selection()
	fmt.Printf("Cities:     %s\n", strings.Join(cat.Cities, ", "))
	fmt.Printf("Categories: %s\n", strings.Join(cat.Categories, ", "))
	fmt.Printf("Products:   %s\n", strings.Join(a.catalog.ProductOptions(), ", "))
	fmt.Printf("Selected:   city=%s category=%s product=%s days=%d\n",
		orDash(sel.City), orDash(sel.Category), orDash(sel.Product), sel.Days)
}

func (a *App) cmdSet(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: set city|category|product|days VALUE")
	}
	value := strings.Join(args[1:], " ")

	switch strings.ToLower(args[0]) {
	case "city":
		return a.catalog.SetCity(value)
	case "category":
		return a.catalog.SetCategory(value)
	case "product":
		return a.catalog.SetProduct(value)
	case "days":
		days, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("days must be a number")
		}
		return a.catalog.SetDays(days)
	default:
		return fmt.Errorf("unknown filter %q", args[0])
	}
}

func (a *App) cmdForecast(ctx context.Context) error {
	result, fromCache, err := a.flow.Run(ctx, a.catalog.Selection())
	if err != nil {
		return err
	}

	source := "backend"
	if fromCache {
		source = "cache"
	}
	fmt.Printf("Forecast for %s / %s in %s (%d days, from %s)\n",
		result.ProductCategory, result.Product, result.City, len(result.Predictions), source)
	fmt.Printf("  total predicted: %.1f units, average %.1f/day\n",
		result.TotalPredicted(), result.AverageDaily())
	for _, p := range result.Predictions {
		fmt.Printf("  %s  %8.1f\n", util.DateOnly(p.Date), p.PredictedQuantitySold)
	}
	return nil
}

func (a *App) cmdHistory() {
	history := a.flow.History()
	if len(history) == 0 {
		fmt.Println("No recent forecasts.")
		return
	}
	for i, r := range history {
		fmt.Printf("%d. %s / %s in %s — %d days, %.1f units total\n",
			i+1, r.ProductCategory, r.Product, r.City, len(r.Predictions), r.TotalPredicted())
	}
}

func (a *App) cmdShow(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: show N")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("usage: show N")
	}

	r, err := a.flow.Open(n - 1)
	if err != nil {
		return err
	}
	fmt.Printf("Forecast for %s / %s in %s (%d days)\n",
		r.ProductCategory, r.Product, r.City, len(r.Predictions))
	for _, p := range r.Predictions {
		fmt.Printf("  %s  %8.1f\n", util.DateOnly(p.Date), p.PredictedQuantitySold)
	}
	return nil
}

func (a *App) cmdInsights(ctx context.Context) error {
	report, err := a.insights.Fetch(ctx)
	if err != nil {
		return err
	}
	if report.Empty() {
		fmt.Println("No insights yet. Upload a sales dataset to generate them.")
		return nil
	}

	if ts := util.ParseTimeDefault(report.CreatedAt, time.Time{}); !ts.IsZero() {
		fmt.Printf("Report generated %s\n", ts.Format("2006-01-02 15:04"))
	}
	if report.KPIs != nil {
		fmt.Printf("Total sales:   %.0f units\n", report.KPIs.TotalSales)
		fmt.Printf("Total revenue: %.2f\n", report.KPIs.TotalRevenue)
	}
	if report.Charts != nil {
		printSeries("Top categories", insights.Series(report.Charts.TopCategories))
		printSeries("Top cities", insights.Series(report.Charts.TopCities))
		printSeries("Top products", insights.Series(report.Charts.TopProducts))
	}
	return nil
}

func (a *App) cmdUpload(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: upload FILE")
	}
	return a.uploader.UploadFile(ctx, args[0], func(sent, total int64) {
		fmt.Printf("\ruploading... %d/%d bytes", sent, total)
		if sent >= total {
			fmt.Println()
		}
	})
}

func (a *App) cmdSample(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: sample FILE")
	}
	if err := upload.WriteSample(args[0]); err != nil {
		return err
	}
	fmt.Printf("Sample dataset written to %s\n", args[0])
	return nil
}

func (a *App) cmdToasts() {
	active := a.toasts.Active()
	if len(active) == 0 {
		fmt.Println("No active notifications.")
		return
	}
	for _, t := range active {
		fmt.Printf("[%s] %s\n", t.Severity, t.Message)
	}
}

func printSeries(title string, points []models.SeriesPoint) {
	if len(points) == 0 {
		return
	}
	fmt.Println(title + ":")
	for _, p := range points {
		fmt.Printf("  %-24s %10.1f\n", p.Label, p.Value)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
