// Package compare handles the statement reconciliation command
package compare

import (
	"fmt"
	"os"

	"ypbank/statements/cmd/root"
	"ypbank/statements/internal/compare"
	"ypbank/statements/internal/currencyutils"
	"ypbank/statements/internal/dateutils"
	"ypbank/statements/internal/fileutils"
	"ypbank/statements/internal/models"
	"ypbank/statements/internal/parser"

	"github.com/spf13/cobra"
)

var (
	file1   string
	file2   string
	format1 string
	format2 string
	verbose bool
)

// Cmd represents the compare command
var Cmd = &cobra.Command{
	Use:   "compare",
	Short: "Reconcile the transactions of two bank statements",
	Long: `Reconcile the transaction lists of two bank statement files, which may
be in different formats. Prints matched counts and the transactions that
appear on only one side. Exits with a non-zero status when the two
statements do not fully match.`,
	Run: compareFunc,
}

func init() {
	Cmd.Flags().StringVarP(&file1, "file1", "1", "", "First statement file")
	Cmd.Flags().StringVarP(&file2, "file2", "2", "", "Second statement file")
	Cmd.Flags().StringVarP(&format1, "format1", "a", "", "First file format: mt940, camt053 or csv")
	Cmd.Flags().StringVarP(&format2, "format2", "b", "", "Second file format: mt940, camt053 or csv")
	Cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print per-transaction details")
	_ = Cmd.MarkFlagRequired("file1")
	_ = Cmd.MarkFlagRequired("file2")
	_ = Cmd.MarkFlagRequired("format1")
	_ = Cmd.MarkFlagRequired("format2")
}

func compareFunc(cmd *cobra.Command, args []string) {
	stmt1, err := loadStatement(file1, format1)
	if err != nil {
		root.Log.Fatalf("Error in file 1: %v", err)
	}
	stmt2, err := loadStatement(file2, format2)
	if err != nil {
		root.Log.Fatalf("Error in file 2: %v", err)
	}

	result := compare.Statements(stmt1, stmt2)
	printResults(result, stmt1, stmt2, verbose)

	if !result.FullyMatched() {
		os.Exit(1)
	}
}

func loadStatement(path, formatName string) (*models.Statement, error) {
	format, err := models.ParseFormat(formatName)
	if err != nil {
		return nil, err
	}
	content, err := fileutils.ReadFileContent(path)
	if err != nil {
		return nil, err
	}
	stmt, diags, err := parser.ParseStatement(content, format)
	if err != nil {
		return nil, err
	}
	for _, d := range diags {
		root.Log.Warn(d.String())
	}
	return &stmt, nil
}

func printResults(result compare.Result, stmt1, stmt2 *models.Statement, verbose bool) {
	fmt.Println("=== Comparison results ===")
	fmt.Println()

	total1 := len(stmt1.Transactions)
	total2 := len(stmt2.Transactions)

	fmt.Printf("Transactions in file 1: %d\n", total1)
	fmt.Printf("Transactions in file 2: %d\n", total2)
	fmt.Println()
	fmt.Printf("Matched transactions: %d (%.1f%%)\n",
		len(result.Matched), compare.Percent(len(result.Matched), total1))
	fmt.Printf("Only in file 1: %d (%.1f%%)\n",
		len(result.OnlyInFirst), compare.Percent(len(result.OnlyInFirst), total1))
	fmt.Printf("Only in file 2: %d (%.1f%%)\n",
		len(result.OnlyInSecond), compare.Percent(len(result.OnlyInSecond), total2))

	if !verbose {
		return
	}

	if len(result.Matched) > 0 {
		fmt.Println()
		fmt.Println("--- Matched transactions ---")
		for _, pair := range result.Matched {
			fmt.Printf("[1] %s\n", formatTransaction(stmt1.Transactions[pair[0]]))
			fmt.Printf("[2] %s\n", formatTransaction(stmt2.Transactions[pair[1]]))
			fmt.Println()
		}
	}

	if len(result.OnlyInFirst) > 0 {
		fmt.Println()
		fmt.Println("--- Only in file 1 ---")
		for _, i := range result.OnlyInFirst {
			fmt.Println(formatTransaction(stmt1.Transactions[i]))
		}
	}

	if len(result.OnlyInSecond) > 0 {
		fmt.Println()
		fmt.Println("--- Only in file 2 ---")
		for _, i := range result.OnlyInSecond {
			fmt.Println(formatTransaction(stmt2.Transactions[i]))
		}
	}
}

func formatTransaction(tx models.Transaction) string {
	sign := "-"
	if tx.IsCredit {
		sign = "+"
	}
	reference := tx.Reference
	if reference == "" {
		reference = "-"
	}
	description := tx.Description
	if len(description) > 50 {
		description = description[:47] + "..."
	}
	return fmt.Sprintf("%s %s %s %s | %s | %s",
		dateutils.FormatISODate(tx.Date), sign,
		currencyutils.FormatMinorUnits(tx.Amount.Value), tx.Amount.Currency,
		reference, description)
}
