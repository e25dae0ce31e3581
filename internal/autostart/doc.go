// Package autostart registers gptranslate to start on login.
package autostart
