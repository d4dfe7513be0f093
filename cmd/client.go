package cmd

import (
	"github.com/spf13/cobra"

	"github.com/vm75/nginx-manager/internal/apiclient"
	"github.com/vm75/nginx-manager/internal/basepath"
	"github.com/vm75/nginx-manager/internal/config"
)

// clientFlags are shared by every command that talks to a running server.
type clientFlags struct {
	serverURL string
	basePath  string
}

func addClientFlags(cmd *cobra.Command, cfg *config.AppConfig) *clientFlags {
	f := &clientFlags{}
	cmd.PersistentFlags().StringVar(&f.serverURL, "server", cfg.ServerURL, "nginx-manager URL (overrides NGINX_MANAGER_URL)")
	cmd.PersistentFlags().StringVar(&f.basePath, "base-path", cfg.BasePath, "URL prefix the server is deployed under")
	return f
}

func (f *clientFlags) client() *apiclient.Client {
	return apiclient.New(apiclient.Config{
		ServerURL: f.serverURL,
		BasePath:  basepath.Normalize(f.basePath),
	})
}
