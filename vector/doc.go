// Package vector defines the numeric building blocks of the store:
//   - Record and Match types shared by the public API
//   - Normalize: pad/truncate to a fixed dimension
//   - Embedding BLOB encoding (little-endian float32)
//   - Cosine similarity with NaN on zero magnitude
//   - Collector: the bounded top-K buffer driven by a single scan
package vector
