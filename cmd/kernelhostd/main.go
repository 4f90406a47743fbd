package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kernelforge/kernel/internal/audit"
	"github.com/kernelforge/kernel/internal/component"
	"github.com/kernelforge/kernel/internal/event"
	"github.com/kernelforge/kernel/internal/infrastructure/fs"
	"github.com/kernelforge/kernel/internal/logging"
	"github.com/kernelforge/kernel/internal/pluginmanager"
	"github.com/kernelforge/kernel/internal/stage"
	"github.com/kernelforge/kernel/internal/ui"

	"github.com/kernelforge/kernel/plugins/reposync"
)

func main() {
	os.Exit(int(run()))
}

func run() exitCode {
	logger, err := logging.New(logging.Options{Level: "info", Component: "kernelhostd"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		return exitConfiguration
	}

	baseDir, err := defaultBaseDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve base directory: %v\n", err)
		return exitConfiguration
	}

	storage := fs.NewStorageManager(baseDir)
	config := fs.NewConfigStore(storage.ConfigDir())
	walker := fs.NewWalker()

	dispatcher := event.NewDispatcher(logger)
	trail := audit.New(os.Stdout)
	auditSink := audit.NewFanout(trail, event.NewPublisher(dispatcher))

	components := component.NewRegistry()
	stages := stage.NewRegistry()
	stages.SetAuditRecorder(auditSink)

	plugins := pluginmanager.NewManager(config, storage, walker, logger)
	plugins.SetAuditRecorder(auditSink)

	bridge := ui.New(dispatcher, components, plugins.Registry())

	if err := component.Insert[*audit.Trail](components, trail); err != nil {
		fmt.Fprintf(os.Stderr, "failed to register audit trail: %v\n", err)
		return exitConfiguration
	}
	if err := component.Insert[*pluginmanager.Manager](components, plugins); err != nil {
		fmt.Fprintf(os.Stderr, "failed to register plugin manager: %v\n", err)
		return exitConfiguration
	}
	if err := component.Insert[*ui.Bridge](components, bridge); err != nil {
		fmt.Fprintf(os.Stderr, "failed to register ui bridge: %v\n", err)
		return exitConfiguration
	}

	if err := plugins.RegisterStatic(reposync.New(reposync.Config{})); err != nil {
		fmt.Fprintf(os.Stderr, "failed to register reposync plugin: %v\n", err)
		return exitConfiguration
	}

	host := component.NewHost(components)
	ctx := context.Background()

	if err := host.InitializeAll(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize components: %v\n", err)
		return exitConfiguration
	}

	app := &appContext{
		Logger:     logger,
		Dispatcher: dispatcher,
		Components: components,
		Host:       host,
		Stages:     stages,
		Plugins:    plugins,
	}

	if err := stages.Register(pluginmanager.NewPreflightStage(plugins)); err != nil {
		fmt.Fprintf(os.Stderr, "failed to register plugin.preflight stage: %v\n", err)
		_ = host.StopAll(ctx)
		return exitConfiguration
	}
	if err := stages.Register(pluginmanager.NewInitializeStage(plugins, app, stages)); err != nil {
		fmt.Fprintf(os.Stderr, "failed to register plugin.initialize stage: %v\n", err)
		_ = host.StopAll(ctx)
		return exitConfiguration
	}

	boot, err := stage.NewPipelineBuilder("boot", "preflight then initialize every discovered plugin").
		AddStage("plugin.preflight").
		AddStage("plugin.initialize").
		AddDependency("plugin.initialize", "plugin.preflight").
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build boot pipeline: %v\n", err)
		_ = host.StopAll(ctx)
		return exitConfiguration
	}

	bootCtx := stage.NewContext(stage.Live, baseDir, os.Args[1:])
	if _, err := boot.Execute(ctx, stages, bootCtx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize plugins: %v\n", err)
		_ = host.StopAll(ctx)
		return exitPluginOrStage
	}

	if err := host.StartAll(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start components: %v\n", err)
		return exitConfiguration
	}
	defer func() { _ = host.StopAll(ctx) }()

	rootCmd := newRootCmd(app)
	rootCmd.SetContext(ctx)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCodeFor(err)
	}
	return exitSuccess
}
