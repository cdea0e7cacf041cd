// Command verso builds or serves a manifest-driven project. Projects that
// need helpers or computed pages use the library directly instead.
package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/verso-press/verso"
	"github.com/verso-press/verso/internal/log"
	"github.com/verso-press/verso/internal/manifest"
)

var (
	rootDir      string
	manifestPath string
)

var rootCmd = &cobra.Command{
	Use:   "verso",
	Short: "verso renders declarative sites",
	Long: `verso reads a site.yaml manifest describing pages, configuration and
project data, and either builds the site to disk or serves it live.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return initConfig(cmd)
	},
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render every page and copy hashed assets to the output directory",
	RunE: func(_ *cobra.Command, _ []string) error {
		site, m, opts, err := load()
		if err != nil {
			return err
		}
		report, err := site.Build(opts, m.Apply)
		if report != nil {
			for _, pageErr := range report.Errors() {
				fmt.Fprintln(os.Stderr, pageErr)
			}
		}
		return err
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the site locally, re-rendering each page on every request",
	RunE: func(_ *cobra.Command, _ []string) error {
		site, m, opts, err := load()
		if err != nil {
			return err
		}
		handler, err := site.Serve(opts, m.Apply)
		if err != nil {
			return err
		}
		addr := fmt.Sprintf(":%d", viper.GetInt("port"))
		logger := log.WithComponent("cli")
		logger.Info().Str("addr", addr).Msg("serving")
		return http.ListenAndServe(addr, handler)
	},
}

func load() (*verso.Site, *manifest.Manifest, verso.Options, error) {
	m, err := manifest.Load(filepath.Join(rootDir, manifestPath))
	if err != nil {
		return nil, nil, verso.Options{}, err
	}
	opts := m.Options(verso.Options{
		Root:      rootDir,
		OutputDir: viper.GetString("output_dir"),
		Workers:   viper.GetInt("workers"),
		LogLevel:  viper.GetString("log_level"),
	})
	return verso.New(), m, opts, nil
}

func initConfig(_ *cobra.Command) error {
	viper.SetDefault("port", 4000)
	viper.SetDefault("output_dir", "")
	viper.SetDefault("workers", 0)
	viper.SetDefault("log_level", "")

	viper.SetEnvPrefix("VERSO")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", ".", "project root directory")
	rootCmd.PersistentFlags().StringVar(&manifestPath, "manifest", "site.yaml", "manifest path relative to the project root")

	serveCmd.Flags().Int("port", 4000, "port to serve on")
	_ = viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
	buildCmd.Flags().String("output-dir", "", "override the output directory")
	_ = viper.BindPFlag("output_dir", buildCmd.Flags().Lookup("output-dir"))
	buildCmd.Flags().Int("workers", 0, "bounded render pool size")
	_ = viper.BindPFlag("workers", buildCmd.Flags().Lookup("workers"))
	rootCmd.PersistentFlags().String("log-level", "", "zerolog level")
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
