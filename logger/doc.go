// Package logger provides structured logging using zerolog.
//
// It supports JSON and console output, level configuration, component-scoped
// loggers and an exchange ID carried through context so every log line of one
// HTTP exchange can be correlated.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.NewDefault("oauth2http").WithComponent("transport")
//	log.Info("exchange ok", logger.Fields("status", 200))
package logger
