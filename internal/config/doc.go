// Package config manages the linkframe configuration file.
//
// The file is YAML and holds the framing scheme and tags, the CRC generator,
// the parity sentinels, the simulated medium and logging settings. Anything
// left out of the file keeps its default, and a missing file is the same as
// Default().
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/linkframe/config.yaml or $HOME/.config/linkframe/config.yaml
//   - macOS: $HOME/.config/linkframe/config.yaml
//   - Windows: %LOCALAPPDATA%\linkframe\config.yaml
//
// Every command also accepts an explicit path.
//
// # Usage Example
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//	opts, err := cfg.ProtocolOptions()
//	if err != nil {
//	    return err
//	}
//	codec, err := protocol.NewCodec(opts)
//
// # Example File
//
//	version: 1
//	framing:
//	  scheme: parity
//	  start_tag: 0x7b
//	  stop_tag: 0x7d
//	  escape_tag: 0x5c
//	  max_chunk: 8
//	parity:
//	  even: 0x6d
//	  odd: 0xd4
//	medium:
//	  type: lownoise
//	  seed: 42
//
// # Thread Safety
//
// Save is protected by a mutex and writes atomically through a temporary
// file. A loaded Config is a plain value and is not synchronized.
package config
