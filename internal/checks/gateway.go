package checks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mikey/workspace-ops/internal/allowlist"
	"github.com/mikey/workspace-ops/internal/core"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var errInvalidJSON = errors.New("invalid JSON")

// GatewaySecurity inspects the gateway config for a public bind or missing auth
type GatewaySecurity struct {
	path     string
	binds    *allowlist.Checker
	required bool
	logger   *zap.Logger
}

// NewGatewaySecurity creates the check. When required is false a missing
// config file is not reported.
func NewGatewaySecurity(path string, binds *allowlist.Checker, required bool, logger *zap.Logger) *GatewaySecurity {
	return &GatewaySecurity{path: path, binds: binds, required: required, logger: logger}
}

func (c *GatewaySecurity) Name() string { return "gateway-security" }

func (c *GatewaySecurity) Run(ctx context.Context, now time.Time, state *core.HeartbeatState) []string {
	name := filepath.Base(c.path)

	data, err := os.ReadFile(c.path)
	if err != nil {
		if c.required {
			return []string{name + " not found"}
		}
		c.logger.Debug("Gateway config absent", zap.String("path", c.path), zap.Error(err))
		return nil
	}

	doc, err := c.parse(data)
	if err != nil {
		return []string{fmt.Sprintf("%s parse failed: %v", name, err)}
	}

	return c.Evaluate(doc)
}

// Evaluate checks an already parsed gateway config document
func (c *GatewaySecurity) Evaluate(doc gjson.Result) []string {
	var alerts []string

	gw := doc.Get("gateway")
	if !gw.IsObject() {
		gw = gjson.Result{}
	}

	bind := "loopback"
	if b := gw.Get("bind"); b.Exists() {
		bind = b.String()
	}
	if !c.binds.IsAllowed(bind) {
		alerts = append(alerts, fmt.Sprintf("Gateway bind is \"%s\" (expected %s).", bind, c.binds.Describe()))
	}

	auth := gw.Get("auth")
	if !auth.IsObject() {
		auth = gjson.Result{}
	}
	if !truthy(auth.Get("token")) && !truthy(auth.Get("password")) && !truthy(auth.Get("tokenFile")) {
		alerts = append(alerts, "Gateway auth appears disabled (no token/password configured).")
	}

	return alerts
}

// parse reads JSON directly and YAML by re-encoding it as JSON
func (c *GatewaySecurity) parse(data []byte) (gjson.Result, error) {
	ext := strings.ToLower(filepath.Ext(c.path))
	if ext == ".yaml" || ext == ".yml" {
		var raw map[string]interface{}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return gjson.Result{}, err
		}
		encoded, err := json.Marshal(raw)
		if err != nil {
			return gjson.Result{}, err
		}
		data = encoded
	}

	if !gjson.ValidBytes(data) {
		return gjson.Result{}, errInvalidJSON
	}
	return gjson.ParseBytes(data), nil
}

func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.String:
		return r.Str != ""
	case gjson.Number:
		return r.Num != 0
	case gjson.True:
		return true
	case gjson.JSON:
		if r.IsArray() {
			return len(r.Array()) > 0
		}
		return len(r.Map()) > 0
	default:
		return false
	}
}
