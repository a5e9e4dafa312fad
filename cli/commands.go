package cli

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kong"
)

var (
	Version   = ""
	CommitSHA = ""
)

// Globals defines global flags available to all commands.
type Globals struct {
	DataDir   string `help:"Directory holding expenses.json and budget.json." env:"FINANCE_DATA_DIR" type:"path"`
	Config    string `help:"YAML configuration file." type:"path"`
	JSON      bool   `help:"Print reports as JSON."`
	Telemetry bool   `help:"Show timing telemetry for operations."`
	Verbose   bool   `help:"Log diagnostics to stderr." short:"v"`
}

type Commands struct {
	Globals

	Add       AddCmd       `cmd:"" help:"Add a new expense."`
	List      ListCmd      `cmd:"" help:"List the most recent expenses."`
	Search    SearchCmd    `cmd:"" help:"Search expenses by date, category or description."`
	Month     MonthCmd     `cmd:"" help:"Show the report for one month."`
	Breakdown BreakdownCmd `cmd:"" help:"Show all-time spending per category against the budget."`
	Stats     StatsCmd     `cmd:"" help:"Show total, average and count of all expenses."`
	Budget    BudgetCmd    `cmd:"" help:"Show or update monthly budgets."`
	Export    ExportCmd    `cmd:"" help:"Export all expenses to CSV."`
	Backup    BackupCmd    `cmd:"" help:"Copy the expenses file to the backup file."`
	Restore   RestoreCmd   `cmd:"" help:"Replace the expenses file with the backup."`
	Menu      MenuCmd      `cmd:"" help:"Run the interactive menu."`
	Serve     ServeCmd     `cmd:"" help:"Start the JSON API server."`
}

type AddCmd struct {
	Date        string   `help:"Date as YYYY-MM-DD, or 'today'." arg:""`
	Amount      string   `help:"Positive amount." arg:""`
	Category    string   `help:"Category; unknown names are filed under Other." arg:""`
	Description []string `help:"Free-form description." arg:"" optional:""`
}

func (cmd *AddCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.open(ctx, "add")
	if err != nil {
		return err
	}
	defer s.close()

	e, err := s.addExpense(cmd.Date, cmd.Amount, cmd.Category, strings.Join(cmd.Description, " "))
	if err != nil {
		return s.fail(err)
	}

	if s.json {
		return s.writeJSON(e)
	}
	printSuccess(s.stdout, fmt.Sprintf("Expense #%d added successfully!", e.ID))
	return nil
}

type ListCmd struct {
	Limit int `help:"Number of expenses to show; 0 shows all." default:"20" short:"n"`
}

func (cmd *ListCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.open(ctx, "list")
	if err != nil {
		return err
	}
	defer s.close()

	return s.listExpenses(cmd.Limit)
}

type SearchCmd struct {
	Keyword string `help:"Case-insensitive text to look for." arg:""`
}

func (cmd *SearchCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.open(ctx, "search")
	if err != nil {
		return err
	}
	defer s.close()

	return s.searchExpenses(cmd.Keyword)
}

type MonthCmd struct {
	YearMonth string `help:"Month as YYYY-MM; defaults to the current month." arg:"" optional:""`
}

func (cmd *MonthCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.open(ctx, "month")
	if err != nil {
		return err
	}
	defer s.close()

	return s.monthlyReport(cmd.YearMonth)
}

type BreakdownCmd struct{}

func (cmd *BreakdownCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.open(ctx, "breakdown")
	if err != nil {
		return err
	}
	defer s.close()

	return s.categoryBreakdown()
}

type StatsCmd struct{}

func (cmd *StatsCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.open(ctx, "stats")
	if err != nil {
		return err
	}
	defer s.close()

	return s.statistics()
}

type BudgetCmd struct {
	Set  BudgetSetCmd  `cmd:"" help:"Set the monthly budget of a category."`
	Show BudgetShowCmd `cmd:"" help:"Show the monthly budget of every category." default:"1"`
}

type BudgetSetCmd struct {
	Category string `help:"Category to budget." arg:""`
	Amount   string `help:"Monthly budget; zero clears it." arg:""`
}

func (cmd *BudgetSetCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.open(ctx, "budget set")
	if err != nil {
		return err
	}
	defer s.close()

	name, value, err := s.setBudget(cmd.Category, cmd.Amount)
	if err != nil {
		return s.fail(err)
	}

	printSuccess(s.stdout, fmt.Sprintf("Budget for %s set to %s", name, s.money(value)))
	return nil
}

type BudgetShowCmd struct{}

func (cmd *BudgetShowCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.open(ctx, "budget show")
	if err != nil {
		return err
	}
	defer s.close()

	return s.showBudget()
}

type ExportCmd struct{}

func (cmd *ExportCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.open(ctx, "export")
	if err != nil {
		return err
	}
	defer s.close()

	return s.exportCSV()
}

type BackupCmd struct{}

func (cmd *BackupCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.open(ctx, "backup")
	if err != nil {
		return err
	}
	defer s.close()

	return s.backup()
}

type RestoreCmd struct {
	Yes bool `help:"Restore without asking for confirmation." short:"y"`
}

func (cmd *RestoreCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.open(ctx, "restore")
	if err != nil {
		return err
	}
	defer s.close()

	if !cmd.Yes && isTerminal() {
		confirmed, err := promptYesNo("Replace current expenses with the backup?")
		if err != nil {
			return err
		}
		if !confirmed {
			printInfof(s.stdout, "Restore cancelled.")
			return nil
		}
	}

	return s.restore()
}

// fail prints input errors and turns them into exit code 1. Anything else is
// returned unchanged.
func (s *session) fail(err error) error {
	if !isInputError(err) {
		return err
	}
	printError(s.stderr, err.Error())
	return NewCommandError(1)
}
