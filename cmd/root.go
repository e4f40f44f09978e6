// Package cmd 提供 appforge 的命令行命令
package cmd

import (
	stdctx "context"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"runtime/trace"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/yeisme/appforge/pkg/context"
	log2 "github.com/yeisme/appforge/pkg/utils/log"
	"github.com/yeisme/appforge/pkg/utils/version"
)

var (
	appCtx *context.AppContext
	log    log2.Logger

	// 全局标志
	globalFlags context.GlobalFlags
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "appforge",
	Short: "appforge packages desktop applications and turns them into distributable artifacts",
	Long: `appforge packages a desktop application for one or more platforms and runs the
configured makers (zip, dmg, deb, rpm, squirrel or external plugins) on the result.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		if globalFlags.VersionEnable {
			fmt.Fprintln(cmd.OutOrStdout(), version.GetShortVersionString())
			return
		}
		if len(args) == 0 {
			_ = cmd.Help()
		}
	},
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if globalFlags.CPUProfile != "" {
			f, err := os.Create(globalFlags.CPUProfile)
			if err != nil {
				return fmt.Errorf("could not create CPU profile: %w", err)
			}
			if err := pprof.StartCPUProfile(f); err != nil {
				return fmt.Errorf("could not start CPU profile: %w", err)
			}
		}
		if globalFlags.Trace != "" {
			f, err := os.Create(globalFlags.Trace)
			if err != nil {
				return fmt.Errorf("could not create trace file: %w", err)
			}
			if err := trace.Start(f); err != nil {
				return fmt.Errorf("could not start trace: %w", err)
			}
		}

		ctx, err := context.InitAppContext(cmd.Context(), globalFlags)
		if err != nil {
			return err
		}
		appCtx = ctx
		log = ctx.Logger

		log.Debug().Msgf("Execute Command: %s %s", "appforge", strings.Join(os.Args[1:], " "))
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if globalFlags.CPUProfile != "" {
			pprof.StopCPUProfile()
		}
		if globalFlags.Trace != "" {
			trace.Stop()
		}
	},
}

// Execute 执行根命令，Ctrl+C 会取消传给子进程的 context
func Execute() {
	ctx, stop := signal.NotifyContext(stdctx.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&globalFlags.ConfigPath, "config", "c", "", "config file")
	rootCmd.PersistentFlags().StringVar(&globalFlags.CPUProfile, "cpu-profile", "", "write cpu profile to `file`")
	rootCmd.PersistentFlags().StringVar(&globalFlags.Trace, "trace", "", "write execution trace to `file`")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.Debug, "debug", false, "enable debug mode (prints additional information)")
	rootCmd.PersistentFlags().BoolVarP(&globalFlags.Verbose, "verbose", "V", false, "enable verbose output (prints more detailed information)")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.Quiet, "quiet", false, "suppress all output except errors")
	rootCmd.Flags().BoolVarP(&globalFlags.VersionEnable, "version", "v", false, "show version information")
}
