// Package core holds the shared conversation data model (messages, tool
// calls) and the token-bucket rate limiter that gates completion-service
// traffic. It has no dependencies on the other khojkar packages so every
// layer can import it freely.
package core
