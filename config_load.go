package listing

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/magiconair/properties"
	"github.com/spf13/viper"
)

// Configuration keys understood by LoadConfig and ConfigFromMap.
// Every key can also be set from the environment: upper case, dots
// replaced by underscores (LISTING_OPERATOR_NOT, LISTING_DEFAULT_LIMIT, ...).
const (
	KeyDefaultIndex     = "listing.default.index"
	KeyDefaultPage      = "listing.default.page"
	KeyDefaultLimit     = "listing.default.limit"
	KeyMaxBackoff       = "listing.default.max_backoff"
	KeyDisjunctionKey   = "listing.filter_type_disjunction"
	KeyOrToInLimit      = "listing.or_to_in_limit"
	KeyOperatorNot      = "listing.operator.not"
	KeyOperatorNotWord  = "listing.operator.not_word"
	KeyOperatorOr       = "listing.operator.or"
	KeyOperatorOrWord   = "listing.operator.or_word"
	KeyOperatorLike     = "listing.operator.like"
	KeyOperatorLikeWord = "listing.operator.like_word"
	KeyOperatorLT       = "listing.operator.lt"
	KeyOperatorLTWord   = "listing.operator.lt_word"
	KeyOperatorGT       = "listing.operator.gt"
	KeyOperatorGTWord   = "listing.operator.gt_word"
	KeyOperatorTo       = "listing.operator.to"
	KeyOperatorToWord   = "listing.operator.to_word"
	KeyOperatorNull     = "listing.operator.null"
	KeyWildcardMany     = "listing.wildcard.many"
	KeyWildcardOne      = "listing.wildcard.one"
	KeySortAsc          = "listing.sort.asc"
	KeySortDesc         = "listing.sort.desc"
	KeyTimezone         = "listing.timezone"
	KeyLogLevel         = "listing.log_level"
)

// LoadConfig reads the configuration from the file at path (properties,
// yaml, toml or json by extension) and from the environment.
// An empty path or a missing file yields the defaults plus environment
// overrides. Values that are not valid integers are logged and ignored.
func LoadConfig(path string) (Config, error) {
	v := newViper()
	switch {
	case path == "":
	case strings.EqualFold(filepath.Ext(path), ".properties"):
		if err := readProperties(v, path); err != nil {
			return Config{}, err
		}
	default:
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("error reading config: %w", err)
			}
		}
	}
	return configFromViper(v, slog.Default())
}

// readProperties merges a Java style properties file into v.
func readProperties(v *viper.Viper, path string) error {
	props, err := properties.LoadFile(path, properties.UTF8)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error reading config: %w", err)
	}
	for key, value := range props.Map() {
		v.Set(key, value)
	}
	return nil
}

// ConfigFromMap returns the default configuration with the given key/value
// overrides applied. Unknown keys are ignored.
func ConfigFromMap(values map[string]string) (Config, error) {
	v := newViper()
	for key, value := range values {
		v.Set(key, value)
	}
	return configFromViper(v, slog.Default())
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper, cfg Config) {
	ops := cfg.Operators
	v.SetDefault(KeyDefaultIndex, cfg.DefaultIndex)
	v.SetDefault(KeyDefaultPage, cfg.DefaultPage)
	v.SetDefault(KeyDefaultLimit, cfg.DefaultLimit)
	v.SetDefault(KeyMaxBackoff, cfg.MaxBackoff)
	v.SetDefault(KeyDisjunctionKey, ops.DisjunctionKey)
	v.SetDefault(KeyOrToInLimit, ops.OrToInLimit)
	v.SetDefault(KeyOperatorNot, ops.Not)
	v.SetDefault(KeyOperatorNotWord, ops.NotWord)
	v.SetDefault(KeyOperatorOr, ops.Or)
	v.SetDefault(KeyOperatorOrWord, ops.OrWord)
	v.SetDefault(KeyOperatorLike, ops.Like)
	v.SetDefault(KeyOperatorLikeWord, ops.LikeWord)
	v.SetDefault(KeyOperatorLT, ops.LT)
	v.SetDefault(KeyOperatorLTWord, ops.LTWord)
	v.SetDefault(KeyOperatorGT, ops.GT)
	v.SetDefault(KeyOperatorGTWord, ops.GTWord)
	v.SetDefault(KeyOperatorTo, ops.To)
	v.SetDefault(KeyOperatorToWord, ops.ToWord)
	v.SetDefault(KeyOperatorNull, ops.Null)
	v.SetDefault(KeyWildcardMany, ops.WildcardMany)
	v.SetDefault(KeyWildcardOne, ops.WildcardOne)
	v.SetDefault(KeySortAsc, ops.SortAsc)
	v.SetDefault(KeySortDesc, ops.SortDesc)
	v.SetDefault(KeyTimezone, "")
	v.SetDefault(KeyLogLevel, "")
}

func configFromViper(v *viper.Viper, logger *slog.Logger) (Config, error) {
	cfg := DefaultConfig()

	intValue := func(key string, def int) int {
		raw := strings.TrimSpace(v.GetString(key))
		n, err := strconv.Atoi(raw)
		if err != nil {
			logger.Warn("invalid integer config value, keeping default",
				"key", key, "value", raw, "default", def)
			return def
		}
		return n
	}

	cfg.DefaultIndex = intValue(KeyDefaultIndex, cfg.DefaultIndex)
	cfg.DefaultPage = intValue(KeyDefaultPage, cfg.DefaultPage)
	cfg.DefaultLimit = intValue(KeyDefaultLimit, cfg.DefaultLimit)
	cfg.MaxBackoff = intValue(KeyMaxBackoff, cfg.MaxBackoff)

	ops := &cfg.Operators
	ops.OrToInLimit = intValue(KeyOrToInLimit, ops.OrToInLimit)
	ops.DisjunctionKey = v.GetString(KeyDisjunctionKey)
	ops.Not = v.GetString(KeyOperatorNot)
	ops.NotWord = v.GetString(KeyOperatorNotWord)
	ops.Or = v.GetString(KeyOperatorOr)
	ops.OrWord = v.GetString(KeyOperatorOrWord)
	ops.Like = v.GetString(KeyOperatorLike)
	ops.LikeWord = v.GetString(KeyOperatorLikeWord)
	ops.LT = v.GetString(KeyOperatorLT)
	ops.LTWord = v.GetString(KeyOperatorLTWord)
	ops.GT = v.GetString(KeyOperatorGT)
	ops.GTWord = v.GetString(KeyOperatorGTWord)
	ops.To = v.GetString(KeyOperatorTo)
	ops.ToWord = v.GetString(KeyOperatorToWord)
	ops.Null = v.GetString(KeyOperatorNull)
	ops.WildcardMany = v.GetString(KeyWildcardMany)
	ops.WildcardOne = v.GetString(KeyWildcardOne)
	ops.SortAsc = v.GetString(KeySortAsc)
	ops.SortDesc = v.GetString(KeySortDesc)

	if tz := strings.TrimSpace(v.GetString(KeyTimezone)); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return Config{}, fmt.Errorf("%w: timezone %q: %w", ErrInvalidConfig, tz, err)
		}
		cfg.Location = loc
	}

	if lvl := strings.TrimSpace(v.GetString(KeyLogLevel)); lvl != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(lvl)); err != nil {
			return Config{}, fmt.Errorf("%w: log level %q: %w", ErrInvalidConfig, lvl, err)
		}
		cfg.LogLevel = &level
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
