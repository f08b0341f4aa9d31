package config

// defaultConfig returns the baseline configuration used when no file is
// present, mirroring a conservative single-host Linux account database
// layout.
func defaultConfig() *Config {
	return &Config{
		UID: UIDRanges{
			System: Range{Min: 1, Max: 999},
			Normal: Range{Min: 1000, Max: 60000},
			Admin: Range{Min: 1000, Max: 60000},
			Guest: Range{Min: 61000, Max: 65000},
			Security: Range{Min: 900, Max: 999},
		},
		GID: GIDRanges{
			System: Range{Min: 1, Max: 999},
			User: Range{Min: 1000, Max: 60000},
		},
		HomeDirPrefix: "/home",
		HomeDirSkel: "/etc/skel",
		Shell: ShellDefaults{
			System: "/usr/sbin/nologin",
			Admin: "/bin/bash",
			Guest: "/usr/sbin/nologin",
			Normal: "/bin/bash",
			Security: "/bin/bash",
		},
		SecretScheme: "sha512",
		SecretSaltLength: 16,
		Shadow: ShadowAging{
			MinDays: 0,
			MaxDays: 99999,
			WarnDays: 7,
		},
		PrimaryGroupName: "",
		Hooks: HookDirs{
			UserAdd: "/etc/accountd/hooks/useradd.d",
			UserDelete: "/etc/accountd/hooks/userdelete.d",
			UserModify: "/etc/accountd/hooks/usermod.d",
			GroupAdd: "/etc/accountd/hooks/groupadd.d",
			GroupDelete: "/etc/accountd/hooks/groupdelete.d",
		},
		Files: Files{
			Passwd: "/etc/passwd",
			Shadow: "/etc/shadow",
			Group: "/etc/group",
			GShadow: "/etc/gshadow",
		},
		DBLockFile: "/etc/.pwd.lock",
		ExtraInfoDir: "/var/lib/accountd/extrainfo",
		Timeout: Timeouts{
			Daemon: 0,
			User: 300,
			Group: 300,
		},
	}
}

// applyDefaults fills in the zero-valued id ranges, paths, shells, secret
// settings, shadow max/warn days and hook directories left after
// unmarshaling a config file. Timeouts, default groups, min days and the
// primary group name are left as they are.
func applyDefaults(cfg *Config) {
	fresh := defaultConfig()

	if cfg.UID.System == (Range{}) {
		cfg.UID.System = fresh.UID.System
	}
	if cfg.UID.Normal == (Range{}) {
		cfg.UID.Normal = fresh.UID.Normal
	}
	if cfg.UID.Admin == (Range{}) {
		cfg.UID.Admin = fresh.UID.Admin
	}
	if cfg.UID.Guest == (Range{}) {
		cfg.UID.Guest = fresh.UID.Guest
	}
	if cfg.UID.Security == (Range{}) {
		cfg.UID.Security = fresh.UID.Security
	}
	if cfg.GID.System == (Range{}) {
		cfg.GID.System = fresh.GID.System
	}
	if cfg.GID.User == (Range{}) {
		cfg.GID.User = fresh.GID.User
	}
	if cfg.HomeDirPrefix == "" {
		cfg.HomeDirPrefix = fresh.HomeDirPrefix
	}
	if cfg.HomeDirSkel == "" {
		cfg.HomeDirSkel = fresh.HomeDirSkel
	}
	if cfg.Shell.System == "" {
		cfg.Shell.System = fresh.Shell.System
	}
	if cfg.Shell.Admin == "" {
		cfg.Shell.Admin = fresh.Shell.Admin
	}
	if cfg.Shell.Guest == "" {
		cfg.Shell.Guest = fresh.Shell.Guest
	}
	if cfg.Shell.Normal == "" {
		cfg.Shell.Normal = fresh.Shell.Normal
	}
	if cfg.Shell.Security == "" {
		cfg.Shell.Security = fresh.Shell.Security
	}
	if cfg.SecretScheme == "" {
		cfg.SecretScheme = fresh.SecretScheme
	}
	if cfg.SecretSaltLength == 0 {
		cfg.SecretSaltLength = fresh.SecretSaltLength
	}
	if cfg.Shadow.MaxDays == 0 {
		cfg.Shadow.MaxDays = fresh.Shadow.MaxDays
	}
	if cfg.Shadow.WarnDays == 0 {
		cfg.Shadow.WarnDays = fresh.Shadow.WarnDays
	}
	if cfg.Hooks.UserAdd == "" {
		cfg.Hooks.UserAdd = fresh.Hooks.UserAdd
	}
	if cfg.Hooks.UserDelete == "" {
		cfg.Hooks.UserDelete = fresh.Hooks.UserDelete
	}
	if cfg.Hooks.UserModify == "" {
		cfg.Hooks.UserModify = fresh.Hooks.UserModify
	}
	if cfg.Hooks.GroupAdd == "" {
		cfg.Hooks.GroupAdd = fresh.Hooks.GroupAdd
	}
	if cfg.Hooks.GroupDelete == "" {
		cfg.Hooks.GroupDelete = fresh.Hooks.GroupDelete
	}
	if cfg.Files.Passwd == "" {
		cfg.Files.Passwd = fresh.Files.Passwd
	}
	if cfg.Files.Shadow == "" {
		cfg.Files.Shadow = fresh.Files.Shadow
	}
	if cfg.Files.Group == "" {
		cfg.Files.Group = fresh.Files.Group
	}
	if cfg.Files.GShadow == "" {
		cfg.Files.GShadow = fresh.Files.GShadow
	}
	if cfg.DBLockFile == "" {
		cfg.DBLockFile = fresh.DBLockFile
	}
	if cfg.ExtraInfoDir == "" {
		cfg.ExtraInfoDir = fresh.ExtraInfoDir
	}
}
