// Package process terminates headless browser process trees.
package process
