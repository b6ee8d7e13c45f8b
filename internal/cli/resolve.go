package cli

import (
	"context"
	"deployables/internal/config"
	"deployables/internal/deployable"
	"deployables/internal/deployment"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	outputText = "text"
	outputJSON = "json"
)

// ErrFailed is returned when at least one deployable could not be handled.
// The per-entry errors have already been printed.
var ErrFailed = errors.New("one or more deployables failed")

// Result is the outcome for one requested deployable.
type Result struct {
	Identifier string               `json:"identifier"`
	Resolved   *deployable.Resolved `json:"resolved,omitempty"`
	Deployment *deployment.Status   `json:"deployment,omitempty"`
	Error      string               `json:"error,omitempty"`
}

type resolveOptions struct {
	env Environment

	manifests       []string
	repository      string
	lenientFetch    bool
	downloadTimeout time.Duration
	container       string
	directory       string
	output          string
	jobs            int
	noColor         bool
	logLevel        string
}

// NewRootCmd creates the resolve command.
func NewRootCmd(env Environment) *cobra.Command {
	o := &resolveOptions{
		env:          env,
		repository:   env.Options.Repository,
		lenientFetch: env.Options.LenientFetch,
		jobs:         4,
		output:       outputText,
		logLevel:     config.GetEnv("LOG_LEVEL", "warn"),
	}

	cmd := &cobra.Command{
		Use:   "resolve [IDENTIFIER...]",
		Short: "Resolve deployables to local files and optionally deploy them",
		Long: `resolve turns deployable identifiers into files on the local filesystem.

An identifier is a local path or file: URI, a Maven coordinate
(urn:mvn:<group>:<artifact>:<version>:<type>), or a URL to download.
With --container the resolved files are copied into the deployment
directory of a running container.`,
		Example: `  resolve urn:mvn:org.jolokia:jolokia-war-unsecured:1.7.1:war
  resolve -f deployables.yaml --output json
  resolve https://example.com/app.war --container wildfly`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if o.noColor {
				color.NoColor = true
			}
			handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: config.ParseLogLevel(o.logLevel)})
			slog.SetDefault(slog.New(handler))
		},
		RunE: o.run,
	}

	cmd.Flags().StringArrayVarP(&o.manifests, "file", "f", nil, "Manifest listing deployables (YAML or JSON, repeatable)")
	cmd.Flags().StringVar(&o.repository, "repository", o.repository, "Maven local repository root")
	cmd.Flags().BoolVar(&o.lenientFetch, "lenient-fetch", o.lenientFetch, "Accept a Maven fetch that leaves the artifact missing")
	cmd.Flags().DurationVar(&o.downloadTimeout, "download-timeout", 0, "Timeout for a single URL download (0 keeps the configured client)")
	cmd.Flags().StringVar(&o.container, "container", "", "Deploy resolved files into this running container")
	cmd.Flags().StringVar(&o.directory, "directory", "", "Deployment directory inside the container")
	cmd.Flags().StringVarP(&o.output, "output", "o", o.output, "Output format: text or json")
	cmd.Flags().IntVarP(&o.jobs, "jobs", "j", o.jobs, "Maximum number of concurrent resolutions")
	cmd.Flags().BoolVar(&o.noColor, "no-color", false, "Disable colored output")
	cmd.Flags().StringVar(&o.logLevel, "log-level", o.logLevel, "Log level: debug, info, warn or error")

	return cmd
}

func (o *resolveOptions) run(cmd *cobra.Command, args []string) error {
	if o.output != outputText && o.output != outputJSON {
		return fmt.Errorf("unsupported output format %q", o.output)
	}
	if o.jobs < 1 {
		return fmt.Errorf("--jobs must be at least 1, got %d", o.jobs)
	}
	if o.directory != "" && o.container == "" {
		return errors.New("--directory requires --container")
	}

	entries, err := o.entries(args)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return errors.New("no deployables given: pass identifiers or --file")
	}

	resolver := deployable.NewResolver(o.resolverOptions(), nil)

	var svc *deployment.Service
	if o.container != "" {
		target, err := o.env.NewTarget()
		if err != nil {
			return fmt.Errorf("deployment target: %w", err)
		}
		defer target.Close()
		svc = deployment.NewService(resolver, target, nil, deployment.LoadConfigFromEnv())
	}

	results := o.process(cmd.Context(), resolver, svc, entries)

	if err := render(cmd.OutOrStdout(), o.output, results); err != nil {
		return err
	}
	for _, r := range results {
		if r.Error != "" {
			return ErrFailed
		}
	}
	return nil
}

// entries merges manifest entries with positional identifiers, manifests first.
func (o *resolveOptions) entries(args []string) ([]deployable.Entry, error) {
	var entries []deployable.Entry
	for _, path := range o.manifests {
		loaded, err := deployable.LoadManifest(path)
		if err != nil {
			return nil, err
		}
		entries = append(entries, loaded...)
	}
	for _, arg := range args {
		entries = append(entries, deployable.Entry{Deployable: arg})
	}
	return entries, nil
}

func (o *resolveOptions) resolverOptions() deployable.Options {
	opts := o.env.Options
	opts.Repository = o.repository
	opts.LenientFetch = o.lenientFetch
	if o.downloadTimeout > 0 {
		opts.HTTPClient = &http.Client{Timeout: o.downloadTimeout}
	}
	return opts
}

// process handles every entry concurrently. A failing entry does not stop
// the others; results keep the input order.
func (o *resolveOptions) process(ctx context.Context, resolver *deployable.Resolver, svc *deployment.Service, entries []deployable.Entry) []Result {
	results := make([]Result, len(entries))

	var g errgroup.Group
	g.SetLimit(o.jobs)
	for i, e := range entries {
		g.Go(func() error {
			results[i] = o.handle(ctx, resolver, svc, e)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (o *resolveOptions) handle(ctx context.Context, resolver *deployable.Resolver, svc *deployment.Service, e deployable.Entry) Result {
	result := Result{Identifier: e.Deployable}

	if svc != nil {
		status, err := svc.Deploy(ctx, &deployment.Request{
			Deployable: e.Deployable,
			Container:  o.container,
			Directory:  o.directory,
			FileName:   e.FileName,
		})
		if err != nil {
			result.Error = err.Error()
			return result
		}
		result.Deployment = status
		return result
	}

	resolved, err := resolver.Resolve(ctx, e.Deployable)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	if e.FileName != "" {
		resolved.FileName = e.FileName
	}
	result.Resolved = resolved
	return result
}
