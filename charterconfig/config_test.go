package charterconfig_test

import (
	"io/ioutil"
	"path/filepath"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/rogpeppe/charter/charterconfig"
)

var parseTests = []struct {
	testName    string
	yaml        bool
	data        string
	expect      *charterconfig.Config
	expectError string
}{{
	testName: "empty-json",
	data:     `{}`,
	expect:   charterconfig.Default(),
}, {
	testName: "empty-yaml",
	yaml:     true,
	data:     ``,
	expect:   charterconfig.Default(),
}, {
	testName: "all-fields-yaml",
	yaml:     true,
	data: `
listen-addr: ":9000"
source-url: "http://source.example:4242"
channels: "4 5"
interval: 1s
horizon: 100
chart: main
export-dir: /tmp/charter
log-config: "<root>=DEBUG"
`,
	expect: &charterconfig.Config{
		ListenAddr: ":9000",
		SourceURL:  "http://source.example:4242",
		Channels:   "4 5",
		Interval:   time.Second,
		Horizon:    100,
		Chart:      "main",
		ExportDir:  "/tmp/charter",
		LogConfig:  "<root>=DEBUG",
	},
}, {
	testName: "some-fields-json",
	data:     `{"interval": "100ms", "chart": "c2"}`,
	expect: func() *charterconfig.Config {
		cfg := charterconfig.Default()
		cfg.Interval = 100 * time.Millisecond
		cfg.Chart = "c2"
		return cfg
	}(),
}, {
	testName:    "bad-interval",
	data:        `{"interval": "soon"}`,
	expectError: `invalid interval: time: invalid duration "?soon"?`,
}, {
	testName:    "negative-interval",
	yaml:        true,
	data:        `interval: -1s`,
	expectError: `interval -1s is not positive`,
}, {
	testName:    "zero-horizon",
	yaml:        true,
	data:        `horizon: 0`,
	expectError: `horizon 0 is not positive`,
}, {
	testName:    "empty-channels",
	yaml:        true,
	data:        `channels: "  "`,
	expectError: `no channels`,
}, {
	testName:    "empty-chart",
	data:        `{"chart": ""}`,
	expectError: `no chart id`,
}, {
	testName:    "bad-yaml",
	yaml:        true,
	data:        `horizon: [`,
	expectError: `cannot unmarshal configuration: .*`,
}}

func TestParse(t *testing.T) {
	c := qt.New(t)
	for _, test := range parseTests {
		c.Run(test.testName, func(c *qt.C) {
			cfg, err := charterconfig.Parse([]byte(test.data), test.yaml)
			if test.expectError != "" {
				c.Assert(err, qt.ErrorMatches, test.expectError)
				c.Assert(cfg, qt.IsNil)
				return
			}
			c.Assert(err, qt.IsNil)
			c.Assert(cfg, qt.DeepEquals, test.expect)
		})
	}
}

func TestLoadByExtension(t *testing.T) {
	c := qt.New(t)
	dir := c.Mkdir()
	yamlPath := filepath.Join(dir, "charter.yml")
	err := ioutil.WriteFile(yamlPath, []byte("horizon: 20\n"), 0666)
	c.Assert(err, qt.IsNil)
	cfg, err := charterconfig.Load(yamlPath)
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Horizon, qt.Equals, 20)

	jsonPath := filepath.Join(dir, "charter.conf")
	err = ioutil.WriteFile(jsonPath, []byte(`{"horizon": 30}`), 0666)
	c.Assert(err, qt.IsNil)
	cfg, err = charterconfig.Load(jsonPath)
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Horizon, qt.Equals, 30)
}

func TestLoadErrors(t *testing.T) {
	c := qt.New(t)
	dir := c.Mkdir()
	_, err := charterconfig.Load(filepath.Join(dir, "missing.yaml"))
	c.Assert(err, qt.ErrorMatches, `cannot read configuration: .*`)

	path := filepath.Join(dir, "bad.yaml")
	err = ioutil.WriteFile(path, []byte("horizon: -3\n"), 0666)
	c.Assert(err, qt.IsNil)
	_, err = charterconfig.Load(path)
	c.Assert(err, qt.ErrorMatches, `bad configuration file ".*bad.yaml": horizon -3 is not positive`)
}
