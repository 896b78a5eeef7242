// Package bruteforce implements driven.VectorIndex as a full scan over the
// chunk store.
//
// Every query scores every embedded chunk with cosine similarity. The scan
// is split into batches consumed by a bounded pool of workers, each keeping
// its own top-k, merged once all batches are done. At the corpus sizes the
// assistant serves (tens of thousands of chunks) this is fast enough that no
// approximate index is needed.
package bruteforce
