package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"json_script_analyzer/internal/domain/models"
	"json_script_analyzer/internal/pkg/errors"
	"json_script_analyzer/internal/report"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newExportCmd(root *rootOptions) *cobra.Command {
	var formatName, outputPath string

	cmd := &cobra.Command{
		Use:   "export INPUT",
		Short: "Render a saved analysis (JSON or YAML) as a PDF or Markdown report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := exportFormat(formatName, outputPath)
			if err != nil {
				return err
			}
			if outputPath == "" {
				outputPath = format.FileName()
			}

			result, err := readAnalysis(args[0])
			if err != nil {
				return err
			}

			if err := writeReportFile(outputPath, format, result); err != nil {
				return err
			}
			root.logger.WithField(`file`, outputPath).Debug(`report exported`)
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", outputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&formatName, "format", "f", "", "Report format: pdf or md (default from --output, else pdf)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Report file (default JSON_Script_Analysis_Report.<format>)")
	return cmd
}

func exportFormat(name, outputPath string) (report.Format, error) {
	switch {
	case name != "":
		return report.ParseFormat(name)
	case outputPath != "":
		return report.ParseFormat(outputPath)
	default:
		return report.FormatPDF, nil
	}
}

var errNotAnalysis = errors.Sentinel(`input is not an analysis: expected an "analysis" object or errors/warnings/good_practices`)

// readAnalysis loads either an upload response ({"analysis": {...}}) or a
// bare AnalysisResult. Files ending in .yaml or .yml are read as YAML.
// Documents carrying none of those keys are rejected.
func readAnalysis(path string) (*models.AnalysisResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, `failed to read analysis`)
	}

	unmarshal := json.Unmarshal
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		unmarshal = yaml.Unmarshal
	}

	var keys map[string]any
	if err := unmarshal(data, &keys); err != nil {
		return nil, errors.Wrap(err, `failed to decode analysis`)
	}

	if analysis, ok := keys["analysis"]; ok {
		if _, isObject := analysis.(map[string]any); !isObject {
			return nil, errNotAnalysis
		}
		var resp models.UploadResponse
		if err := unmarshal(data, &resp); err != nil {
			return nil, errors.Wrap(err, `failed to decode analysis`)
		}
		return resp.Analysis.Clone(), nil
	}

	for _, k := range []string{"errors", "warnings", "good_practices"} {
		if _, ok := keys[k]; ok {
			var result models.AnalysisResult
			if err := unmarshal(data, &result); err != nil {
				return nil, errors.Wrap(err, `failed to decode analysis`)
			}
			return result.Clone(), nil
		}
	}
	return nil, errNotAnalysis
}
