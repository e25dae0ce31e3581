// Package translation turns clipboard text into a translation by calling an
// OpenAI or Azure OpenAI chat completion endpoint. It suppresses rapid
// duplicate submissions and tolerates loosely formatted model output.
package translation
