package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strconv"

	"json_script_analyzer/internal/adaptors"
	domain "json_script_analyzer/internal/domain/adaptors"
	"json_script_analyzer/internal/domain/models"
	"json_script_analyzer/internal/pkg/errors"
	"json_script_analyzer/internal/pkg/worker_pool"
	"json_script_analyzer/internal/report"
	"json_script_analyzer/internal/service"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

type scanOptions struct {
	output     string
	reportPath string
	workers    int
}

// fileScan is the outcome of scanning one file.
type fileScan struct {
	File              string `json:"file" yaml:"file"`
	service.ViewState `yaml:",inline"`
	Error             string `json:"error,omitempty" yaml:"error,omitempty"`
}

func newScanCmd(root *rootOptions) *cobra.Command {
	opts := &scanOptions{}

	cmd := &cobra.Command{
		Use:   "scan FILE...",
		Short: "Upload JSON files to the analysis service and print the findings",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch opts.output {
			case outputText, outputJSON, outputYAML:
			default:
				return fmt.Errorf("--output must be one of %s, %s, %s", outputText, outputJSON, outputYAML)
			}
			var format report.Format
			if opts.reportPath != "" {
				if len(args) != 1 {
					return errors.New(`--report needs exactly one file`)
				}
				f, err := report.ParseFormat(opts.reportPath)
				if err != nil {
					return errors.Wrap(err, `--report`)
				}
				format = f
			}

			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}

			s := &scanner{
				client:      adaptors.NewAnalysisClient(cfg.Analysis.EndpointURL, cfg.Analysis.ClientTimeout, root.logger),
				maxFileSize: cfg.Analysis.MaxFileSize,
				log:         root.logger,
			}
			links := service.DefaultLinks().Override(
				cfg.Analysis.Links.AboutJSON,
				cfg.Analysis.Links.GoodPractices,
				cfg.Analysis.Links.CommonMistakes,
			)

			scans := s.scanAll(cmd.Context(), args, opts.workers)
			if err := writeScans(cmd.OutOrStdout(), opts.output, scans, links); err != nil {
				return err
			}

			if opts.reportPath != "" && scans[0].Result != nil {
				if err := writeReportFile(opts.reportPath, format, scans[0].Result); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", opts.reportPath)
			}

			failed := 0
			for _, sc := range scans {
				if sc.Error != "" {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d uploads failed", failed, len(scans))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", outputText, "Output format: text, json or yaml")
	cmd.Flags().StringVar(&opts.reportPath, "report", "", "Write a PDF (.pdf) or Markdown (.md) report of the result")
	cmd.Flags().IntVar(&opts.workers, "workers", 4, "Number of files uploaded concurrently")
	return cmd
}

type scanner struct {
	client      domain.AnalysisClient
	maxFileSize int64
	log         *log.Logger
}

// scanAll scans every path on a worker pool and returns the outcomes in
// argument order.
func (s *scanner) scanAll(ctx context.Context, paths []string, workers int) []*fileScan {
	if workers > len(paths) {
		workers = len(paths)
	}
	pool := worker_pool.NewWorkerPool(ctx, workers, false, s.log)

	go func() {
		defer pool.Close()
		for i, path := range paths {
			err := pool.Submit(strconv.Itoa(i), func(ctx context.Context) (any, error) {
				return s.scan(ctx, path)
			})
			if err != nil {
				return
			}
		}
	}()

	scans := make([]*fileScan, len(paths))
	for res := range pool.Results() {
		i, err := strconv.Atoi(res.ID)
		if err != nil {
			continue
		}
		if sc, ok := res.Result.(*fileScan); ok && sc != nil {
			scans[i] = sc
			continue
		}
		scans[i] = &fileScan{File: paths[i], Error: errString(res.Err)}
	}
	for i, sc := range scans {
		if sc == nil {
			scans[i] = &fileScan{File: paths[i], Error: worker_pool.ErrPoolCanceled.Error()}
		}
	}
	return scans
}

// scan runs one file through a fresh upload control.
func (s *scanner) scan(ctx context.Context, path string) (*fileScan, error) {
	sc := &fileScan{File: path}
	control := service.NewUploadControl(s.client, s.maxFileSize, s.log)

	sel, err := readLocalFile(path)
	if err == nil {
		if err = control.Select(sel); err == nil {
			err = control.Upload(ctx)
		}
	}
	sc.ViewState = control.Snapshot()
	if err != nil {
		sc.Error = err.Error()
	}
	return sc, err
}

// readLocalFile builds a selection from a file on disk. The declared content
// type comes from the file extension.
func readLocalFile(path string) (*models.FileSelection, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, `failed to read file`)
	}
	return &models.FileSelection{
		Name:        filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Size:        int64(len(content)),
		Content:     content,
	}, nil
}

func writeScans(w io.Writer, output string, scans []*fileScan, links service.LinkSet) error {
	switch output {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(scans)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(scans); err != nil {
			return err
		}
		return enc.Close()
	}

	for i, sc := range scans {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s: %s\n", sc.File, sc.Status)
		if n := sc.Notice; n != nil {
			fmt.Fprintf(w, "  %s: %s\n", n.Title, n.Text)
		} else if sc.Error != "" {
			fmt.Fprintf(w, "  error: %s\n", sc.Error)
		}
		if sc.Result != nil {
			fmt.Fprintln(w)
			if err := service.WriteText(w, service.BuildResultView(sc.Result, links)); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeReportFile(path string, format report.Format, result *models.AnalysisResult) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, `failed to create report file`)
	}
	if err := report.Write(f, format, result); err != nil {
		f.Close()
		return errors.Wrap(err, `failed to write report`)
	}
	return f.Close()
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
