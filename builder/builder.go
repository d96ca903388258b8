// Copyright 2023 Canonical Ltd.

package builder

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/canonical/build-web-env/config"
	"github.com/canonical/build-web-env/envfile"
	"github.com/canonical/build-web-env/placeholder"
)

//go:generate mockgen -destination=mocks/builder_gen.go -package=mock github.com/canonical/build-web-env/builder EnvLoader,Renderer

// EnvLoader is an interface that defines the method to read the key/value
// pairs used to fill in placeholders.
type EnvLoader interface {
	Load(path string) (map[string]string, error)
}

// Renderer is an interface that defines the method to substitute
// placeholders in a template file and write the result.
type Renderer interface {
	Render(templatePath, targetPath string, env map[string]string) (*placeholder.Report, error)
}

// Builder loads an environment file and renders it into the web
// environment script.
type Builder struct {
	// Loader reads the environment file.
	Loader EnvLoader
	// Renderer substitutes placeholders and writes the target.
	Renderer Renderer
	// Logger is used for logging Builder operations. It may be nil.
	Logger *zap.Logger
}

// New returns a Builder backed by the envfile and placeholder packages.
func New(cfg config.Config, logger *zap.Logger) *Builder {
	return &Builder{
		Loader:   envfile.Loader{},
		Renderer: placeholder.Substitutor{Atomic: cfg.Atomic},
		Logger:   logger,
	}
}

// Build loads the environment file named by cfg and renders its values into
// the target. The template is not read unless the environment file loaded
// successfully, and any error aborts the build.
func (b *Builder) Build(cfg config.Config) error {
	envPath := cfg.EnvPath()
	env, err := b.Loader.Load(envPath)
	if err != nil {
		return fmt.Errorf("error loading environment: %w", err)
	}
	b.logDebug("environment loaded", zap.String("path", envPath), zap.Int("keys", len(env)))

	templatePath, targetPath := cfg.TemplatePath(), cfg.TargetPath()
	report, err := b.Renderer.Render(templatePath, targetPath, env)
	if err != nil {
		return fmt.Errorf("error rendering template: %w", err)
	}

	b.logDebug("template rendered",
		zap.String("template", templatePath),
		zap.String("target", targetPath),
		zap.Int("replacements", report.Replacements),
	)
	if len(report.Unresolved) > 0 {
		b.logWarn("placeholders left unresolved",
			zap.String("target", targetPath),
			zap.Strings("placeholders", report.Unresolved),
		)
	}

	return nil
}

func (b *Builder) logDebug(msg string, fields ...zap.Field) {
	if b.Logger != nil {
		b.Logger.Debug(msg, fields...)
	}
}

func (b *Builder) logWarn(msg string, fields ...zap.Field) {
	if b.Logger != nil {
		b.Logger.Warn(msg, fields...)
	}
}
