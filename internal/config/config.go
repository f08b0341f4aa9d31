// Package config loads accountd's static configuration: uid/gid ranges,
// file paths, default shells and groups, secret hashing parameters, hook
// directories, and timeouts.
//
// Configuration sources (in order of precedence):
// 1. Debug builds only: the PASSWD_FILE, SHADOW_FILE, GROUP_FILE,
//    GSHADOW_FILE and DB_LOCKFILE environment variables
// 2. Configuration file (YAML); an ACCOUNTD_* environment variable
//    overrides a key that the file sets
// 3. Default values (lowest priority)
//
// No field is bound to a CLI flag; the CLIs apply --sysroot afterwards
// through Rebase.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Range bounds an id allocation window, inclusive on both ends.
type Range struct {
	Min uint32 `mapstructure:"min" yaml:"min" validate:"required"`
	Max uint32 `mapstructure:"max" yaml:"max" validate:"required,gtefield=Min"`
}

// UIDRanges collects the five uid allocation windows.
type UIDRanges struct {
	System Range `mapstructure:"system" yaml:"system"`
	Normal Range `mapstructure:"normal" yaml:"normal"`
	Admin Range `mapstructure:"admin" yaml:"admin"`
	Guest Range `mapstructure:"guest" yaml:"guest"`
	Security Range `mapstructure:"security" yaml:"security"`
}

// GIDRanges collects the two gid allocation windows.
type GIDRanges struct {
	System Range `mapstructure:"system" yaml:"system"`
	User Range `mapstructure:"user" yaml:"user"`
}

// ShellDefaults names the default login shell per user type.
type ShellDefaults struct {
	System string `mapstructure:"system" yaml:"system"`
	Admin string `mapstructure:"admin" yaml:"admin"`
	Guest string `mapstructure:"guest" yaml:"guest"`
	Normal string `mapstructure:"normal" yaml:"normal"`
	Security string `mapstructure:"security" yaml:"security"`
}

// DefaultGroups names the groups a newly added user of each type is
// enrolled into, beyond its primary group.
type DefaultGroups struct {
	System []string `mapstructure:"system" yaml:"system"`
	Admin []string `mapstructure:"admin" yaml:"admin"`
	Guest []string `mapstructure:"guest" yaml:"guest"`
	Normal []string `mapstructure:"normal" yaml:"normal"`
	Security []string `mapstructure:"security" yaml:"security"`
}

// HookDirs names the directory scanned for each lifecycle event.
type HookDirs struct {
	UserAdd string `mapstructure:"useradd_dir" yaml:"useradd_dir"`
	UserDelete string `mapstructure:"userdelete_dir" yaml:"userdelete_dir"`
	UserModify string `mapstructure:"usermod_dir" yaml:"usermod_dir"`
	GroupAdd string `mapstructure:"groupadd_dir" yaml:"groupadd_dir"`
	GroupDelete string `mapstructure:"groupdelete_dir" yaml:"groupdelete_dir"`
}

// Files names the four account database files.
type Files struct {
	Passwd string `mapstructure:"passwd" yaml:"passwd" validate:"required"`
	Shadow string `mapstructure:"shadow" yaml:"shadow" validate:"required"`
	Group string `mapstructure:"group" yaml:"group" validate:"required"`
	GShadow string `mapstructure:"gshadow" yaml:"gshadow" validate:"required"`
}

// Timeouts names the idle-dispose timeout, in seconds, for each Disposable
// handle kind. 0 means "never dispose".
type Timeouts struct {
	Daemon uint32 `mapstructure:"daemon" yaml:"daemon"`
	User uint32 `mapstructure:"user" yaml:"user"`
	Group uint32 `mapstructure:"group" yaml:"group"`
}

// ShadowAging carries the default min/max/warn day counts written into a
// freshly created shadow row.
type ShadowAging struct {
	MinDays int64 `mapstructure:"min_days" yaml:"min_days"`
	MaxDays int64 `mapstructure:"max_days" yaml:"max_days"`
	WarnDays int64 `mapstructure:"warn_days" yaml:"warn_days"`
}

// Config is the read-only configuration surface the engines depend on.
// External callers that do not want to load it from a YAML file (e.g. a
// test harness) can construct one by hand.
type Config struct {
	UID UIDRanges `mapstructure:"uid" yaml:"uid"`
	GID GIDRanges `mapstructure:"gid" yaml:"gid"`
	HomeDirPrefix string `mapstructure:"homedir_prefix" yaml:"homedir_prefix"`
	HomeDirSkel string `mapstructure:"homedir_skel_dir" yaml:"homedir_skel_dir"`
	Shell ShellDefaults `mapstructure:"shell_default" yaml:"shell_default"`
	SecretScheme string `mapstructure:"secret_scheme" yaml:"secret_scheme" validate:"required,oneof=md5 sha256 sha512 des"`
	SecretSaltLength int `mapstructure:"secret_salt_length" yaml:"secret_salt_length" validate:"omitempty,min=2,max=16"`
	Shadow ShadowAging `mapstructure:"shadow" yaml:"shadow"`
	PrimaryGroupName string `mapstructure:"usr_primary_grpname" yaml:"usr_primary_grpname"`
	DefaultGroups DefaultGroups `mapstructure:"default_groups" yaml:"default_groups"`
	Hooks HookDirs `mapstructure:"hooks" yaml:"hooks"`
	Files Files `mapstructure:"files" yaml:"files"`
	DBLockFile string `mapstructure:"db_lockfile" yaml:"db_lockfile" validate:"required"`
	Timeout Timeouts `mapstructure:"timeout" yaml:"timeout"`
	ExtraInfoDir string `mapstructure:"extra_info_dir" yaml:"extra_info_dir"`
}

// Load starts from the defaults, overlays the configuration file and the
// environment (see the package comment for precedence), refills
// zero-valued fields from the defaults, then validates the result.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	found, err := readConfigFile(v)
	if err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	if found {
		if err := v.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal accountd config: %w", err)
		}
	}
	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("accountd config validation failed: %w", err)
	}
	return cfg, nil
}

func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix("ACCOUNTD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}
	v.AddConfigPath("/etc/accountd")
	v.SetConfigName("config")
	v.SetConfigType("yaml")
}

func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read accountd config file: %w", err)
	}
	return true, nil
}

// Validate runs go-playground/validator's struct-tag checks only; no
// cross-field invariant beyond the tags (such as range ordering across
// types, or presence of a default shell) is checked.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return err
	}
	return nil
}

// Rebase prefixes every configured filesystem path with sysroot, which
// implements the CLI's "--sysroot <dir>" flag by making the
// engines read/write under a chroot-like prefix without actually
// chrooting the process.
func Rebase(cfg *Config, sysroot string) *Config {
	if sysroot == "" {
		return cfg
	}
	rebased := *cfg
	rebased.Files.Passwd = filepath.Join(sysroot, cfg.Files.Passwd)
	rebased.Files.Shadow = filepath.Join(sysroot, cfg.Files.Shadow)
	rebased.Files.Group = filepath.Join(sysroot, cfg.Files.Group)
	rebased.Files.GShadow = filepath.Join(sysroot, cfg.Files.GShadow)
	rebased.DBLockFile = filepath.Join(sysroot, cfg.DBLockFile)
	rebased.HomeDirPrefix = filepath.Join(sysroot, cfg.HomeDirPrefix)
	rebased.ExtraInfoDir = filepath.Join(sysroot, cfg.ExtraInfoDir)
	return &rebased
}
