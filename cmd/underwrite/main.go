package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/iwvelando/dev-underwriter/internal/analysis"
	"github.com/iwvelando/dev-underwriter/internal/config"
	"github.com/iwvelando/dev-underwriter/internal/logging"
	"github.com/iwvelando/dev-underwriter/pkg/constants"
	"github.com/iwvelando/dev-underwriter/pkg/output"
	"github.com/iwvelando/dev-underwriter/pkg/validation"
	"go.uber.org/zap"
)

// run loads the configuration, underwrites every active deal and project and
// writes the report in the requested format.
func run(logger *zap.Logger, conf *config.Configuration, outputFormat string, w io.Writer) error {
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return err
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	report, err := analysis.Run(logger, *conf)
	if err != nil {
		return fmt.Errorf("failed to underwrite configuration: %w", err)
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(w, report)
	case constants.OutputFormatCSV:
		output.CsvFormat(w, report)
	}
	return nil
}

func main() {
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		logging.Fatal(fmt.Sprintf("failed to load configuration at %s", *configLocation), err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(conf.Logging, *logLevel)
	if err != nil {
		logging.Fatal("failed to initialize logger", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI override takes precedence over config
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}

	if err := run(logger, conf, outputFormat, os.Stdout); err != nil {
		logger.Fatal("underwriting failed",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
