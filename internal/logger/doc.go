// Package logger wraps zap to give thermo-slots:
//   - a global sugared logger with a console encoder,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level parsing and runtime level changes,
//   - short helpers such as InfoKV and WarnKV.
//
// Services receive a context and log through the logger stored in it, so
// every line carries the component name and request-scoped fields.
package logger
