// Package convert handles the statement conversion command
package convert

import (
	"io"
	"os"

	"ypbank/statements/cmd/root"
	"ypbank/statements/internal/convert"
	"ypbank/statements/internal/fileutils"
	"ypbank/statements/internal/models"

	"github.com/spf13/cobra"
)

var (
	inputFile    string
	outputFile   string
	inputFormat  string
	outputFormat string
)

// Cmd represents the convert command
var Cmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a bank statement between formats",
	Long: `Convert a bank statement file between MT940, CAMT.053 and bank CSV formats.
Reads from stdin when no input file is given and writes to stdout when no
output file is given. Converting from CSV to another format is not supported.`,
	Run: convertFunc,
}

func init() {
	Cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input file (default stdin)")
	Cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default stdout)")
	Cmd.Flags().StringVarP(&inputFormat, "input-format", "f", "", "Input format: mt940, camt053 or csv")
	Cmd.Flags().StringVarP(&outputFormat, "output-format", "t", "", "Output format: mt940, camt053 or csv")
	_ = Cmd.MarkFlagRequired("input-format")
	_ = Cmd.MarkFlagRequired("output-format")
}

func convertFunc(cmd *cobra.Command, args []string) {
	from, err := models.ParseFormat(inputFormat)
	if err != nil {
		root.Log.Fatalf("Invalid input format: %v", err)
	}
	to, err := models.ParseFormat(outputFormat)
	if err != nil {
		root.Log.Fatalf("Invalid output format: %v", err)
	}

	content, err := readInput(inputFile)
	if err != nil {
		root.Log.Fatalf("Error reading input: %v", err)
	}

	out := os.Stdout
	if outputFile != "" {
		f, err := fileutils.CreateFile(outputFile)
		if err != nil {
			root.Log.Fatalf("Error creating output file: %v", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				root.Log.Warnf("Failed to close output file: %v", err)
			}
		}()
		out = f
	}

	if err := convert.Convert(content, from, to, out); err != nil {
		root.Log.Fatalf("Conversion failed: %v", err)
	}
	root.Log.Infof("Converted %s to %s successfully", from, to)
}

func readInput(path string) (string, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return fileutils.ReadFileContent(path)
}
