// Package fewshot provides episodic few-shot classification evaluation for Go.
//
// Fewshot evaluates prototype-based classifiers over precomputed feature
// vectors using the standard N-way K-shot protocol: each episode draws N
// classes, K support examples per class to build prototypes, and Q query
// examples per class to score against them.
//
// # Quick Start
//
//	bank, _ := featurebank.New(labels, vectors)
//
//	clf := protonet.New[string]()
//	ev, _ := fewshot.NewEvaluator[string](clf)
//
//	report, _ := ev.Evaluate(ctx, bank, episode.Config{
//	    Way:   5,
//	    Shot:  1,
//	    Query: 15,
//	    Tasks: 600,
//	    Seed:  42,
//	})
//	fmt.Printf("accuracy: %.4f\n", report.Accuracy)
//
// # Determinism
//
// Episode sampling is driven entirely by Config.Seed: the same bank, config
// and seed reproduce the identical episode sequence and therefore the
// identical report, including under pipelined evaluation (WithPrefetch).
//
// # Persistence
//
// Feature banks serialize to any BlobStore (local disk, in-memory, S3,
// MinIO) with optional zstd or lz4 block compression:
//
//	store, _ := local.New("./data")
//	_ = bank.Save(ctx, store, "features.bank")
//	bank, _ = featurebank.Load[string](ctx, store, "features.bank")
//
// # Key Features
//
//   - Indexed, immutable feature banks with per-class bitmap indexes
//   - Seeded N-way K-shot episode sampling with eager feasibility checks
//   - Prototypical-network classification with pluggable scoring
//     (negative squared L2, cosine, dot product)
//   - Micro accuracy plus confusion matrix, per-class F1 and macro-F1
//   - Pipelined evaluation with bounded prefetch
//   - Cloud-native snapshot storage (S3/MinIO via BlobStore)
package fewshot
