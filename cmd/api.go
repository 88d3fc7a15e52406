package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/desertthunder/artistpage/internal/services"
	"github.com/desertthunder/artistpage/internal/shared"
	"github.com/urfave/cli/v3"
)

func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	return r.apiCall(ctx, cmd, http.MethodGet, false)
}

func (r *Runner) APIPost(ctx context.Context, cmd *cli.Command) error {
	return r.apiCall(ctx, cmd, http.MethodPost, true)
}

func (r *Runner) APIPut(ctx context.Context, cmd *cli.Command) error {
	return r.apiCall(ctx, cmd, http.MethodPut, true)
}

func (r *Runner) APIDelete(ctx context.Context, cmd *cli.Command) error {
	return r.apiCall(ctx, cmd, http.MethodDelete, false)
}

// apiCall sends one request through the gateway and prints the response body.
// JSON bodies are pretty printed.
func (r *Runner) apiCall(ctx context.Context, cmd *cli.Command, method string, withBody bool) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path is required", shared.ErrMissingArgument)
	}

	req := services.Request{
		Method:    method,
		Endpoint:  path,
		Anonymous: cmd.Bool("anonymous"),
	}

	if withBody {
		data := cmd.String("data")
		if data == "" {
			return fmt.Errorf("%w: --data is required for %s", shared.ErrMissingArgument, method)
		}
		req.Body = []byte(data)
	}

	if err := r.connect(ctx); err != nil {
		return err
	}

	resp, err := r.gateway.IssueRequest(ctx, req)
	if err != nil {
		return err
	}

	r.logger.Debug("api response", "status", resp.StatusCode, "json", resp.IsJSON)

	if !resp.OK() {
		return services.ParseAPIError(resp, http.StatusText(resp.StatusCode))
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, true)
	}
	if len(resp.Body) == 0 {
		return r.writeOK("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return r.writePlain("%s\n", resp.Body)
}
