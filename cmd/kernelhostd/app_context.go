package main

import (
	"github.com/kernelforge/kernel/internal/component"
	"github.com/kernelforge/kernel/internal/event"
	"github.com/kernelforge/kernel/internal/plugin"
	"github.com/kernelforge/kernel/internal/pluginmanager"
	"github.com/kernelforge/kernel/internal/ports"
	"github.com/kernelforge/kernel/internal/stage"
)

// appContext bundles the long-lived services main wires up, so every
// subcommand gets at the same instances without a global.
type appContext struct {
	Logger     ports.Logger
	Dispatcher *event.Dispatcher
	Components *component.Registry
	Host       *component.Host
	Stages     *stage.Registry
	Plugins    *pluginmanager.Manager
}

var _ plugin.Application = (*appContext)(nil)

// ComponentByName searches the component registry by name rather than
// type, the view plugin.Init receives.
func (a *appContext) ComponentByName(name string) (interface{}, bool) {
	for _, c := range a.Components.Iter() {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}
