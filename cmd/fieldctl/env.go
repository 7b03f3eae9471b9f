package main

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/faciam-dev/matchinput/internal/fieldstore"
	"github.com/faciam-dev/matchinput/internal/server"
	"github.com/faciam-dev/matchinput/pkg/config"
	"github.com/faciam-dev/matchinput/pkg/customfield"
	"github.com/faciam-dev/matchinput/sdk/client"
)

const defaultRegistryFile = "registry.yaml"

func newLogger(cmd *cobra.Command) *zap.SugaredLogger {
	if v, _ := cmd.Root().PersistentFlags().GetBool("verbose"); v {
		if l, err := zap.NewDevelopment(); err == nil {
			return l.Sugar()
		}
	}
	return zap.NewNop().Sugar()
}

// registryFile returns file, or the resolved --registry setting.
func registryFile(cmd *cobra.Command, file string) (string, error) {
	if file != "" {
		return file, nil
	}
	r, err := config.Resolve(cmd)
	if err != nil {
		return "", err
	}
	if r.Registry != "" {
		return r.Registry, nil
	}
	return defaultRegistryFile, nil
}

// loadTypes returns the built-in field types plus any plugins.
func loadTypes(cmd *cobra.Command) (*customfield.Types, error) {
	return server.LoadTypes(pluginDir(cmd), newLogger(cmd))
}

// loadStore builds a store from the registry file.
func loadStore(cmd *cobra.Command, file string) (*fieldstore.Store, error) {
	path, err := registryFile(cmd, file)
	if err != nil {
		return nil, err
	}
	return server.NewStore(server.Config{RegistryFile: path, PluginDir: pluginDir(cmd)}, newLogger(cmd))
}

// newClient talks to the API when remote is set, otherwise to a store
// loaded from the registry file.
func newClient(cmd *cobra.Command, file string, remote bool) (client.Client, error) {
	if !remote {
		store, err := loadStore(cmd, file)
		if err != nil {
			return nil, err
		}
		return client.NewLocal(store), nil
	}
	r, err := config.Resolve(cmd)
	if err != nil {
		return nil, err
	}
	if r.APIURL == "" {
		return nil, errors.New("API URL not set (flag/env/config)")
	}
	var opts []client.Option
	if r.Token != "" {
		opts = append(opts, client.WithToken(r.Token))
	}
	if r.Insecure {
		opts = append(opts, client.WithInsecure())
	}
	return client.NewHTTP(r.APIURL, opts...), nil
}
