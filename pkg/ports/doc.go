/*
Package ports defines the driven ports (interfaces) of the arbor generator.

These interfaces decouple the core algorithms from external implementations,
allowing the engine to work with various grammar sources, caches and random
sources.

# Key Interfaces

  - GrammarLoader: Responsible for loading grammar definitions (e.g., from Loam or Memory).
  - SequenceCache: Memoizes expanded sequences (e.g., in Memory or Redis).
  - SessionStore: Holds live growth sessions for long-running hosts.
  - Random: Uniform random source used for ranged turn angles.
*/
package ports
