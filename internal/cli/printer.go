// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"io"
	"net/http"

	"github.com/fatih/color"
	"github.com/gogama/routex/codec"
	"github.com/gogama/routex/route"
	"github.com/tidwall/gjson"
)

// printer writes responses. Successful bodies go to out; the status
// line and body of anything else go to errOut.
type printer struct {
	out     io.Writer
	errOut  io.Writer
	sel     string
	noColor bool
	code    int
}

func (p *printer) route() route.Route {
	return route.Dispatch(route.StatusSeries(),
		route.On(route.Successful, route.Call(p.success)),
		route.On(route.ClientError, route.Call(p.failure(ExitClientError, color.FgYellow))),
		route.On(route.ServerError, route.Call(p.failure(ExitServerError, color.FgRed))),
		route.Any[route.Series](route.Call(p.other)))
}

func (p *printer) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if p.noColor {
		c.DisableColor()
	}
	return c
}

func (p *printer) success(resp *http.Response) error {
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if p.sel == "" {
		_, err = p.out.Write(b)
		return err
	}
	if codec.MediaType(resp.Header.Get("Content-Type")) != "application/json" && !gjson.ValidBytes(b) {
		return fmt.Errorf("--select needs a JSON response, got %s", resp.Header.Get("Content-Type"))
	}
	result := gjson.GetBytes(b, p.sel)
	if !result.Exists() {
		return fmt.Errorf("path %q not found in response", p.sel)
	}
	_, err = fmt.Fprintln(p.out, result.String())
	return err
}

func (p *printer) failure(code int, fg color.Attribute) func(*http.Response) error {
	return func(resp *http.Response) error {
		defer resp.Body.Close()
		p.code = code
		p.paint(fg, color.Bold).Fprintln(p.errOut, resp.Status)
		_, err := io.Copy(p.errOut, resp.Body)
		return err
	}
}

func (p *printer) other(resp *http.Response) error {
	defer resp.Body.Close()
	p.paint(color.FgCyan).Fprintln(p.errOut, resp.Status)
	return nil
}
