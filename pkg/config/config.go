// Copyright 2023 LiveKit, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/livekit/protocol/logger"
)

const (
	generatedCLIFlagUsage = "generated"

	ReplayProtectionNone   = "none"
	ReplayProtectionMemory = "memory"
	ReplayProtectionRedis  = "redis"
)

var (
	ErrKeyFileIncorrectPermission = errors.New("key file others permissions must be set to 0")
	ErrKeysNotSet                 = errors.New("one of key-file or keys must be provided")
	ErrInvalidReplayProtection    = errors.New("webhook.replay_protection must be one of none, memory, redis")
	ErrRedisNotConfigured         = errors.New("redis.address is required for redis replay protection")
)

type Config struct {
	Port           uint32            `yaml:"port,omitempty"`
	BindAddresses  []string          `yaml:"bind_addresses,omitempty"`
	PrometheusPort uint32            `yaml:"prometheus_port,omitempty"`
	Redis          RedisConfig       `yaml:"redis,omitempty"`
	Room           RoomConfig        `yaml:"room,omitempty"`
	Token          TokenConfig       `yaml:"token,omitempty"`
	WebHook        WebHookConfig     `yaml:"webhook,omitempty"`
	KeyFile        string            `yaml:"key_file,omitempty"`
	Keys           map[string]string `yaml:"keys,omitempty"`
	Logging        LoggingConfig     `yaml:"logging,omitempty"`
	Development    bool              `yaml:"development,omitempty"`
}

type RedisConfig struct {
	Address  string `yaml:"address,omitempty"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
	UseTLS   bool   `yaml:"use_tls,omitempty"`
}

func (r *RedisConfig) IsConfigured() bool {
	return r.Address != ""
}

type RoomConfig struct {
	// URL of the server hosting the room service
	URL string `yaml:"url,omitempty"`
	// Timeout bounds each room service call
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

type TokenConfig struct {
	// validity of tokens created from the command line
	TTL time.Duration `yaml:"ttl,omitempty"`
	// validity of tokens minted per room service call
	ClientTTL time.Duration `yaml:"client_ttl,omitempty"`
}

type WebHookConfig struct {
	Path string `yaml:"path,omitempty"`
	// key expected as issuer, any configured key is accepted when empty
	APIKey           string `yaml:"api_key,omitempty"`
	SkipAuth         bool   `yaml:"skip_auth,omitempty"`
	ReplayProtection string `yaml:"replay_protection,omitempty"`
	ReplayCacheSize  int    `yaml:"replay_cache_size,omitempty"`
	// URLs receive events sent with send-webhook
	URLs []string `yaml:"urls,omitempty"`
}

type LoggingConfig struct {
	logger.Config `yaml:",inline"`
}

var DefaultConfig = Config{
	Port: 7890,
	Room: RoomConfig{
		URL:     "http://localhost:7880",
		Timeout: 10 * time.Second,
	},
	Token: TokenConfig{
		TTL:       6 * time.Hour,
		ClientTTL: 10 * time.Minute,
	},
	WebHook: WebHookConfig{
		Path:             "/webhook",
		ReplayProtection: ReplayProtectionNone,
		ReplayCacheSize:  10000,
	},
	Keys: map[string]string{},
}

func NewConfig(confString string, strictMode bool, c *cli.Context, baseFlags []cli.Flag) (*Config, error) {
	// start with defaults
	marshalled, err := yaml.Marshal(&DefaultConfig)
	if err != nil {
		return nil, err
	}

	var conf Config
	err = yaml.Unmarshal(marshalled, &conf)
	if err != nil {
		return nil, err
	}

	if confString != "" {
		decoder := yaml.NewDecoder(strings.NewReader(confString))
		decoder.KnownFields(strictMode)
		if err := decoder.Decode(&conf); err != nil {
			return nil, fmt.Errorf("could not parse config: %v", err)
		}
	}

	if c != nil {
		if err := conf.updateFromCLI(c, baseFlags); err != nil {
			return nil, err
		}
	}

	// expand env vars in filenames
	file, err := homedir.Expand(os.ExpandEnv(conf.KeyFile))
	if err != nil {
		return nil, err
	}
	conf.KeyFile = file

	conf.fillDefaults()
	if conf.Logging.Level == "" && conf.Development {
		conf.Logging.Level = "debug"
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}

// fillDefaults restores defaults for values cleared by the command line.
func (conf *Config) fillDefaults() {
	if conf.Port == 0 {
		conf.Port = DefaultConfig.Port
	}
	if conf.WebHook.Path == "" {
		conf.WebHook.Path = DefaultConfig.WebHook.Path
	}
	if conf.WebHook.ReplayProtection == "" {
		conf.WebHook.ReplayProtection = ReplayProtectionNone
	}
	if conf.WebHook.ReplayCacheSize <= 0 {
		conf.WebHook.ReplayCacheSize = DefaultConfig.WebHook.ReplayCacheSize
	}
	if conf.Token.TTL <= 0 {
		conf.Token.TTL = DefaultConfig.Token.TTL
	}
	if conf.Token.ClientTTL <= 0 {
		conf.Token.ClientTTL = DefaultConfig.Token.ClientTTL
	}
	if conf.Room.URL == "" {
		conf.Room.URL = DefaultConfig.Room.URL
	}
	if conf.Room.Timeout <= 0 {
		conf.Room.Timeout = DefaultConfig.Room.Timeout
	}
	if conf.Keys == nil {
		conf.Keys = map[string]string{}
	}
}

func (conf *Config) Validate() error {
	switch conf.WebHook.ReplayProtection {
	case ReplayProtectionNone, ReplayProtectionMemory:
	case ReplayProtectionRedis:
		if !conf.Redis.IsConfigured() {
			return ErrRedisNotConfigured
		}
	default:
		return ErrInvalidReplayProtection
	}

	if conf.Logging.Level != "" {
		if _, err := zapcore.ParseLevel(conf.Logging.Level); err != nil {
			return errors.Wrap(err, "invalid logging.level")
		}
	}
	if !strings.HasPrefix(conf.WebHook.Path, "/") {
		return fmt.Errorf("webhook.path must start with /, got %q", conf.WebHook.Path)
	}
	return nil
}

type configNode struct {
	TypeNode  reflect.Value
	TagPrefix string
}

func (conf *Config) ToCLIFlagNames(existingFlags []cli.Flag) map[string]reflect.Value {
	existingFlagNames := map[string]bool{}
	for _, flag := range existingFlags {
		for _, flagName := range flag.Names() {
			existingFlagNames[flagName] = true
		}
	}

	flagNames := map[string]reflect.Value{}
	var currNode configNode
	nodes := []configNode{{reflect.ValueOf(conf).Elem(), ""}}
	for len(nodes) > 0 {
		currNode, nodes = nodes[0], nodes[1:]
		for i := 0; i < currNode.TypeNode.NumField(); i++ {
			// inspect yaml tag from struct field to get path
			field := currNode.TypeNode.Type().Field(i)
			yamlTagArray := strings.SplitN(field.Tag.Get("yaml"), ",", 2)
			yamlTag := yamlTagArray[0]
			isInline := len(yamlTagArray) > 1 && yamlTagArray[1] == "inline"
			if (yamlTag == "" && (!isInline || currNode.TagPrefix == "")) || yamlTag == "-" {
				continue
			}
			yamlPath := yamlTag
			if currNode.TagPrefix != "" {
				if isInline {
					yamlPath = currNode.TagPrefix
				} else {
					yamlPath = fmt.Sprintf("%s.%s", currNode.TagPrefix, yamlTag)
				}
			}
			if existingFlagNames[yamlPath] {
				continue
			}

			// map flag name to value
			value := currNode.TypeNode.Field(i)
			if value.Kind() == reflect.Struct {
				nodes = append(nodes, configNode{value, yamlPath})
			} else {
				flagNames[yamlPath] = value
			}
		}
	}

	return flagNames
}

// ValidateKeys loads the key file when set. Keys from the file replace inline keys.
func (conf *Config) ValidateKeys() error {
	if conf.KeyFile != "" {
		var otherFilter os.FileMode = 0o007
		if st, err := os.Stat(conf.KeyFile); err != nil {
			return err
		} else if st.Mode().Perm()&otherFilter != 0o000 {
			return ErrKeyFileIncorrectPermission
		}
		f, err := os.Open(conf.KeyFile)
		if err != nil {
			return err
		}
		defer func() {
			_ = f.Close()
		}()
		decoder := yaml.NewDecoder(f)
		conf.Keys = map[string]string{}
		if err = decoder.Decode(conf.Keys); err != nil {
			return err
		}
	}

	if len(conf.Keys) == 0 {
		return ErrKeysNotSet
	}

	if !conf.Development {
		for key, secret := range conf.Keys {
			if len(secret) < 32 {
				logger.Warnw("secret is too short, should be at least 32 characters for security", nil, "apiKey", key)
			}
		}
	}
	return nil
}

// FirstKey returns the webhook api key when set, otherwise any configured pair.
func (conf *Config) FirstKey() (string, string) {
	if conf.WebHook.APIKey != "" {
		return conf.WebHook.APIKey, conf.Keys[conf.WebHook.APIKey]
	}
	for k, v := range conf.Keys {
		return k, v
	}
	return "", ""
}

func GenerateCLIFlags(existingFlags []cli.Flag, hidden bool) ([]cli.Flag, error) {
	blankConfig := &Config{}
	flags := make([]cli.Flag, 0)
	for name, value := range blankConfig.ToCLIFlagNames(existingFlags) {
		kind := value.Kind()
		if kind == reflect.Ptr {
			kind = value.Type().Elem().Kind()
		}

		var flag cli.Flag
		envVar := fmt.Sprintf("LIVEKIT_%s", strings.ToUpper(strings.Replace(name, ".", "_", -1)))

		switch kind {
		case reflect.Bool:
			flag = &cli.BoolFlag{
				Name:    name,
				EnvVars: []string{envVar},
				Usage:   generatedCLIFlagUsage,
				Hidden:  hidden,
			}
		case reflect.String:
			flag = &cli.StringFlag{
				Name:    name,
				EnvVars: []string{envVar},
				Usage:   generatedCLIFlagUsage,
				Hidden:  hidden,
			}
		case reflect.Int, reflect.Int32:
			flag = &cli.IntFlag{
				Name:    name,
				EnvVars: []string{envVar},
				Usage:   generatedCLIFlagUsage,
				Hidden:  hidden,
			}
		case reflect.Int64:
			if value.Type() == reflect.TypeOf(time.Duration(0)) {
				flag = &cli.DurationFlag{
					Name:    name,
					EnvVars: []string{envVar},
					Usage:   generatedCLIFlagUsage,
					Hidden:  hidden,
				}
				break
			}
			flag = &cli.Int64Flag{
				Name:    name,
				EnvVars: []string{envVar},
				Usage:   generatedCLIFlagUsage,
				Hidden:  hidden,
			}
		case reflect.Uint8, reflect.Uint16, reflect.Uint32:
			flag = &cli.UintFlag{
				Name:    name,
				EnvVars: []string{envVar},
				Usage:   generatedCLIFlagUsage,
				Hidden:  hidden,
			}
		case reflect.Uint64:
			flag = &cli.Uint64Flag{
				Name:    name,
				EnvVars: []string{envVar},
				Usage:   generatedCLIFlagUsage,
				Hidden:  hidden,
			}
		case reflect.Float32, reflect.Float64:
			flag = &cli.Float64Flag{
				Name:    name,
				EnvVars: []string{envVar},
				Usage:   generatedCLIFlagUsage,
				Hidden:  hidden,
			}
		case reflect.Slice:
			if value.Type().Elem().Kind() != reflect.String {
				continue
			}
			flag = &cli.StringSliceFlag{
				Name:    name,
				EnvVars: []string{envVar},
				Usage:   generatedCLIFlagUsage,
				Hidden:  hidden,
			}
		case reflect.Map, reflect.Struct:
			// maps and nested values are not exposed as flags
			continue
		default:
			return flags, fmt.Errorf("cli flag generation unsupported for config type: %s is a %s", name, kind.String())
		}

		flags = append(flags, flag)
	}

	return flags, nil
}

func (conf *Config) updateFromCLI(c *cli.Context, baseFlags []cli.Flag) error {
	generatedFlagNames := conf.ToCLIFlagNames(baseFlags)
	for _, flag := range c.App.Flags {
		flagName := flag.Names()[0]

		// the `c.App.Name != "test"` check is needed because `c.IsSet(...)` is always false in unit tests
		if !c.IsSet(flagName) && c.App.Name != "test" {
			continue
		}

		configValue, ok := generatedFlagNames[flagName]
		if !ok {
			continue
		}

		kind := configValue.Kind()
		if kind == reflect.Ptr {
			// instantiate value to be set
			configValue.Set(reflect.New(configValue.Type().Elem()))

			kind = configValue.Type().Elem().Kind()
			configValue = configValue.Elem()
		}

		switch kind {
		case reflect.Bool:
			configValue.SetBool(c.Bool(flagName))
		case reflect.String:
			configValue.SetString(c.String(flagName))
		case reflect.Int, reflect.Int32:
			configValue.SetInt(c.Int64(flagName))
		case reflect.Int64:
			if configValue.Type() == reflect.TypeOf(time.Duration(0)) {
				configValue.SetInt(int64(c.Duration(flagName)))
			} else {
				configValue.SetInt(c.Int64(flagName))
			}
		case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			configValue.SetUint(c.Uint64(flagName))
		case reflect.Float32, reflect.Float64:
			configValue.SetFloat(c.Float64(flagName))
		case reflect.Slice:
			configValue.Set(reflect.ValueOf(c.StringSlice(flagName)))
		default:
			return fmt.Errorf("unsupported generated cli flag type for config: %s is a %s", flagName, kind.String())
		}
	}

	if c.IsSet("dev") {
		conf.Development = c.Bool("dev")
	}
	if c.IsSet("key-file") {
		conf.KeyFile = c.String("key-file")
	}
	if c.IsSet("keys") {
		if err := conf.unmarshalKeys(c.String("keys")); err != nil {
			return errors.New("Could not parse keys, it needs to be exactly, \"key: secret\", including the space")
		}
	}
	if c.IsSet("redis-host") {
		conf.Redis.Address = c.String("redis-host")
	}
	if c.IsSet("redis-password") {
		conf.Redis.Password = c.String("redis-password")
	}
	if c.IsSet("bind") {
		conf.BindAddresses = c.StringSlice("bind")
	}
	return nil
}

func (conf *Config) unmarshalKeys(keys string) error {
	temp := make(map[string]interface{})
	if err := yaml.Unmarshal([]byte(keys), temp); err != nil {
		return err
	}

	conf.Keys = make(map[string]string, len(temp))

	for key, val := range temp {
		if secret, ok := val.(string); ok {
			conf.Keys[key] = secret
		}
	}
	return nil
}

func InitLoggerFromConfig(config *LoggingConfig) {
	logger.InitFromConfig(config.Config, "livekit-sdk")
}
