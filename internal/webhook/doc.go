// Package webhook implements the catch-all webhook inspector endpoint.
//
// Every request, on any path and with any method, is captured in full,
// printed as one console block and optionally checked against an
// HMAC-SHA256 signature computed with a pre-shared secret.
//
// # Security Model
//
//   - HMAC-SHA256 signatures verified using crypto/subtle (constant-time comparison)
//   - Digest is computed over the raw body bytes, never re-encoded or trimmed
//   - Body size limits enforced (413 when exceeded)
//   - Response bodies are always empty; the secret and digests only reach the console
//
// # Request Flow
//
//  1. Request arrives on any path
//  2. Body read in full (413 if too large, 400 if the read fails)
//  3. Body rendered: pretty JSON, plain text, or a binary summary
//  4. Signature header extracted if present
//  5. HMAC-SHA256 computed over the body and compared in constant time
//  6. One block written to the console
//  7. Status returned with an empty body
//
// # Responses
//
//   - 200 OK: no signature header, or signature verified
//   - 400 Bad Request: signature header not of the form sha256=<hex>
//   - 401 Unauthorized: well-formed signature that does not match
//   - 413 Payload Too Large: body exceeds max body size
//
// # Example Usage
//
//	cfg := webhook.Config{
//		Listen:          "0.0.0.0:3000",
//		Secret:          []byte(os.Getenv("WEBHOOK_SECRET")),
//		SignatureHeader: "X-Super-Signature",
//	}
//
//	h := webhook.NewHandler(cfg, report.NewFormatter(report.PlainTheme()), report.NewStreamSink(os.Stdout), logger)
//	server := webhook.New(cfg, h, logger)
//	if err := server.Start(ctx); err != nil {
//		log.Fatal(err)
//	}
package webhook
