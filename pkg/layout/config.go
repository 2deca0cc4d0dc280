package layout

import (
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/codematrix/pkg/errors"
	"github.com/matzehuels/codematrix/pkg/pack"
)

// validate is safe for concurrent use; it caches struct metadata only.
var validate = validator.New()

// BoxSize is the fixed size of one node box.
type BoxSize struct {
	Width  float64 `json:"width" toml:"width" yaml:"width" validate:"gt=0"`
	Height float64 `json:"height" toml:"height" yaml:"height" validate:"gt=0"`
}

// Config holds every dimension the layout uses. Callers pass it by value;
// the package keeps no defaults of its own beyond [DefaultConfig].
type Config struct {
	ColumnWidth float64 `json:"column_width" toml:"column_width" yaml:"column_width" validate:"gt=0"`
	RowHeight   float64 `json:"row_height" toml:"row_height" yaml:"row_height" validate:"gt=0"`
	Padding     float64 `json:"padding" toml:"padding" yaml:"padding" validate:"gte=0"`

	DataType          BoxSize `json:"data_type" toml:"data_type" yaml:"data_type"`
	Class             BoxSize `json:"class" toml:"class" yaml:"class"`
	Method            BoxSize `json:"method" toml:"method" yaml:"method"`
	StructWithMethods BoxSize `json:"struct_with_methods" toml:"struct_with_methods" yaml:"struct_with_methods"`
	Function          BoxSize `json:"function" toml:"function" yaml:"function"`

	// RowStrategy packs the top and bottom rows and middle-row orphans.
	// Empty means shelf.
	RowStrategy pack.Strategy `json:"row_strategy,omitempty" toml:"row_strategy" yaml:"row_strategy" validate:"omitempty,oneof=shelf guillotine column"`
}

// DefaultConfig returns the built-in dimensions.
func DefaultConfig() Config {
	return Config{
		ColumnWidth:       600,
		RowHeight:         400,
		Padding:           10,
		DataType:          BoxSize{Width: 120, Height: 40},
		Class:             BoxSize{Width: 160, Height: 36},
		Method:            BoxSize{Width: 160, Height: 24},
		StructWithMethods: BoxSize{Width: 140, Height: 40},
		Function:          BoxSize{Width: 140, Height: 32},
		RowStrategy:       pack.StrategyShelf,
	}
}

// Validate checks field ranges and that every box fits a column with
// Padding on both sides.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid layout config")
	}
	for _, b := range c.boxes() {
		if b.size.Width+2*c.Padding > c.ColumnWidth {
			return errors.New(errors.ErrCodeInvalidConfig,
				"%s box width %v plus padding exceeds column width %v", b.name, b.size.Width, c.ColumnWidth)
		}
	}
	return nil
}

type namedBox struct {
	name string
	size BoxSize
}

func (c Config) boxes() []namedBox {
	return []namedBox{
		{"data_type", c.DataType},
		{"class", c.Class},
		{"method", c.Method},
		{"struct_with_methods", c.StructWithMethods},
		{"function", c.Function},
	}
}

func (c Config) strategy() pack.Strategy {
	if c.RowStrategy == "" {
		return pack.StrategyShelf
	}
	return c.RowStrategy
}
