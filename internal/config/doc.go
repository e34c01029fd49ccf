// Package config provides configuration parsing for kakapo applications.
//
// The configuration is stored in kakapo.yaml or kakapo.json in the working
// directory. Missing files are not an error; the defaults apply.
//
// # Configuration File Structure
//
//	window:
//	  title: kakapo
//	  eventQueue: 64
//	inspector:
//	  enabled: true
//	  addr: localhost:7070
//	metrics:
//	  namespace: kakapo
//	log:
//	  level: debug
//	  format: json
//	demo:
//	  pressDelay: 2s
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config
