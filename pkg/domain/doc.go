/*
Package domain contains the core data model of the arbor generator.

It defines the symbolic side of an L-system (Symbols, Sequences, Rules and
Grammars) and the geometric side produced by turtle interpretation (Branches
organised in a Tree). This package is kept pure: no I/O, no randomness and no
global state. Algorithms that transform these values live in internal/runtime.

# Key Entities

  - Sequence: an ordered list of Symbols. Rewriting always produces a new Sequence.
  - RuleSet: an ordered list of production Rules. The first matching Rule wins.
  - Grammar: axiom, rules, iteration count and turtle configuration.
  - Tree: the Branch hierarchy plus a flat creation-order index of every Branch.
  - TurtleState: scratch value pushed and popped while interpreting brackets.
*/
package domain
