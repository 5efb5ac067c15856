// Package cfg holds the converter settings. Values come, lowest precedence
// first, from defaults, a plt2pdf config file, PLT2PDF_* environment
// variables and command line flags.
package cfg

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"pltpages/pkg/layout"
)

// Output formats.
const (
	FormatPDF   = "pdf"
	FormatSVG   = "svg"
	FormatGCode = "gcode"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	// Page size in mm.
	PageWidth  float64 `mapstructure:"page_width"`
	PageHeight float64 `mapstructure:"page_height"`
	// Overlap between neighbouring tiles in mm.
	Overlap float64 `mapstructure:"overlap"`
	// Margin is the margin-overlay page margin.
	Margin float64 `mapstructure:"margin"`
	// SheetMargin is the single-sheet border.
	SheetMargin float64 `mapstructure:"sheet_margin"`
	Policy      string  `mapstructure:"policy"`
	Format      string  `mapstructure:"format"`
	InputDir    string  `mapstructure:"input_dir"`
	OutputDir   string  `mapstructure:"output_dir"`
	Jobs        int     `mapstructure:"jobs"`
}

func Default() Config {
	return Config{
		PageWidth:   layout.A4.Width,
		PageHeight:  layout.A4.Height,
		Overlap:     20,
		Margin:      20,
		SheetMargin: 20,
		Policy:      layout.StepName,
		Format:      FormatPDF,
		InputDir:    "input_plt",
		OutputDir:   "output_pdf",
		Jobs:        1,
	}
}

var pages = map[string]layout.PageSize{
	"a4":     layout.A4,
	"a3":     layout.A3,
	"letter": layout.Letter,
}

// PageByName looks up a named page size, ignoring case.
func PageByName(name string) (layout.PageSize, bool) {
	p, ok := pages[strings.ToLower(name)]
	return p, ok
}

// PageName is the upper-case name of the configured page, or "custom".
func (c Config) PageName() string {
	for name, p := range pages {
		if p.Width == c.PageWidth && p.Height == c.PageHeight {
			return strings.ToUpper(name)
		}
	}
	return "custom"
}

func (c Config) Page() layout.PageSize {
	return layout.PageSize{Width: c.PageWidth, Height: c.PageHeight}
}

// TilingPolicy builds and validates the configured policy.
func (c Config) TilingPolicy() (layout.Policy, error) {
	return layout.ParsePolicy(c.Policy, c.Page(), c.Overlap, c.Margin, c.SheetMargin)
}

func (c Config) Validate() error {
	switch c.Format {
	case FormatPDF, FormatSVG, FormatGCode:
	default:
		return fmt.Errorf("%w: unknown format %q", ErrInvalidConfig, c.Format)
	}
	if c.Jobs < 1 {
		return fmt.Errorf("%w: jobs must be at least 1, got %d", ErrInvalidConfig, c.Jobs)
	}
	if _, err := c.TilingPolicy(); err != nil {
		return err
	}
	return nil
}

// Load reads the configuration. An empty path searches the working
// directory for an optional plt2pdf.{yaml,json,toml}; an explicit path must
// exist. Flags that were set override everything else; a "page" flag holding
// a page name sets both page dimensions.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	def := Default()
	v.SetDefault("page_width", def.PageWidth)
	v.SetDefault("page_height", def.PageHeight)
	v.SetDefault("overlap", def.Overlap)
	v.SetDefault("margin", def.Margin)
	v.SetDefault("sheet_margin", def.SheetMargin)
	v.SetDefault("policy", def.Policy)
	v.SetDefault("format", def.Format)
	v.SetDefault("input_dir", def.InputDir)
	v.SetDefault("output_dir", def.OutputDir)
	v.SetDefault("jobs", def.Jobs)

	v.SetEnvPrefix("PLT2PDF")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("plt2pdf")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return Config{}, err
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrInvalidConfig, err)
	}
	return c, c.Validate()
}

// bindFlags maps dashed flag names onto config keys. Only flags the user
// changed are bound so flag defaults never shadow the config file. Explicit
// page-width and page-height flags win over a page name.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var err error
	flags.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		if f.Name == "page" {
			p, ok := PageByName(f.Value.String())
			if !ok {
				err = fmt.Errorf("%w: unknown page size %q", ErrInvalidConfig, f.Value.String())
				return
			}
			if !flags.Changed("page-width") {
				v.Set("page_width", p.Width)
			}
			if !flags.Changed("page-height") {
				v.Set("page_height", p.Height)
			}
			return
		}
		key := strings.ReplaceAll(f.Name, "-", "_")
		if isKey(key) {
			err = v.BindPFlag(key, f)
		}
	})
	return err
}

func isKey(key string) bool {
	switch key {
	case "page_width", "page_height", "overlap", "margin", "sheet_margin",
		"policy", "format", "input_dir", "output_dir", "jobs":
		return true
	}
	return false
}
