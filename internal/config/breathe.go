package config

// BreatheConfig holds the [tool.docwiki.breathe] table for C/C++ API docs.
// Pointer fields are nil when the key is absent so conf.py keeps Breathe's default.
type BreatheConfig struct {
	Projects                         map[string]string
	DefaultProject                   string
	DomainByExtension                map[string]string
	DomainByFilePattern              map[string]string
	BuildDirectory                   string
	DefaultMembers                   []string
	ShowDefineInitializer            *bool
	ShowEnumvalueInitializer         *bool
	ShowInclude                      *bool
	ImplementationFilenameExtensions []string
	DoxygenConfigOptions             map[string]string
	DoxygenAliases                   map[string]string
	UseProjectRefids                 *bool
	OrderParametersFirst             *bool
	SeparateMemberPages              *bool
	AutoRunDoxygen                   bool
}

// Enabled reports whether any Breathe project is configured.
func (b BreatheConfig) Enabled() bool {
	return len(b.Projects) > 0
}

// LoadBreatheConfig reads the breathe table.
func LoadBreatheConfig(s *Settings) BreatheConfig {
	key := func(k string) string { return toolKey("breathe", k) }
	optBool := func(k string) *bool {
		if v, ok := s.Bool(key(k)); ok {
			return &v
		}
		return nil
	}
	b := BreatheConfig{
		DefaultProject:           s.str(key("default-project")),
		BuildDirectory:           s.str(key("build-directory")),
		ShowDefineInitializer:    optBool("show-define-initializer"),
		ShowEnumvalueInitializer: optBool("show-enumvalue-initializer"),
		ShowInclude:              optBool("show-include"),
		UseProjectRefids:         optBool("use-project-refids"),
		OrderParametersFirst:     optBool("order-parameters-first"),
		SeparateMemberPages:      optBool("separate-member-pages"),
		AutoRunDoxygen:           true,
	}
	b.Projects, _ = s.StringMap(key("projects"))
	b.DomainByExtension, _ = s.StringMap(key("domain-by-extension"))
	b.DomainByFilePattern, _ = s.StringMap(key("domain-by-file-pattern"))
	b.DoxygenConfigOptions, _ = s.StringMap(key("doxygen-config-options"))
	b.DoxygenAliases, _ = s.StringMap(key("doxygen-aliases"))
	b.DefaultMembers, _ = s.StringSlice(key("default-members"))
	b.ImplementationFilenameExtensions, _ = s.StringSlice(key("implementation-filename-extensions"))
	if v, ok := s.Bool(key("auto-run-doxygen")); ok {
		b.AutoRunDoxygen = v
	}
	return b
}
