package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yeisme/appforge/pkg/models"
	"github.com/yeisme/appforge/pkg/project"
	"github.com/yeisme/appforge/pkg/publish"
)

var (
	publishOptions    forgeOptions
	publishPublishers []string

	publishCmd = &cobra.Command{
		Use:   "publish",
		Short: "Make the application and upload the artifacts",
		Long: strings.TrimSpace(`
appforge publish runs make and hands every result to the publishers configured in
publish_targets of the project config (or --publishers).

Available publishers:
  s3   S3 compatible object storage, configured under publish.s3

Examples:
  appforge publish
  appforge publish --platform all --arch x64 --publishers s3`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadProject(publishOptions)
			if err != nil {
				return err
			}
			publishers, err := configuredPublishers()
			if err != nil {
				return err
			}
			pipeline, err := newPipeline(cfg)
			if err != nil {
				return err
			}

			var results []models.MakerResult
			err = withSpinner("Publishing "+cfg.AppName(), publishOptions.JSON, func() error {
				var err error
				results, err = pipeline.Publish(cmd.Context(), project.PublishRequest{
					MakeRequest: makeRequest(cfg, publishOptions),
					Targets:     publishPublishers,
				}, publishers)
				return err
			})
			if err != nil {
				return err
			}
			return project.PrintResults(cmd.OutOrStdout(), results, publishOptions.JSON)
		},
	}
)

// configuredPublishers 根据应用配置创建可用的 publisher
func configuredPublishers() (map[string]publish.Publisher, error) {
	publishers := map[string]publish.Publisher{}
	if s3cfg := appCtx.Config.Publish.S3; s3cfg.Configured() {
		s3, err := publish.NewS3(s3cfg)
		if err != nil {
			return nil, err
		}
		publishers[s3.Name()] = s3
	}
	if len(publishers) == 0 {
		return nil, fmt.Errorf("no publisher is configured, set publish.s3.endpoint and publish.s3.bucket")
	}
	return publishers, nil
}

func init() {
	rootCmd.AddCommand(publishCmd)
	addForgeFlags(publishCmd, &publishOptions, true)
	publishCmd.Flags().StringSliceVar(&publishPublishers, "publishers", nil, "comma separated publishers to use instead of publish_targets")
}
