// Package config holds the gptranslate user configuration and its JSON
// store. Older config files are migrated forward on load through a loosely
// typed document so that new fields get defaults and retired values are
// rewritten.
package config
