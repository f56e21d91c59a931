/*
Package domain contains the shared types of the switchboard router.

It defines the three capability domains, the operation request and result shapes that
cross the service boundary, the tabular record model and the error taxonomy. The package
is kept free of I/O so the operation tables, services, agents and the coordinator can all
depend on it.

# Key Entities

  - Domain: one of math (numeric), data (tabular) or text (textual).
  - Request: an operation name with positional and named arguments.
  - Result: Success{operation, value} or Failure{operation, kind, message}.
  - Record / Dataset: read-only tabular data loaded once at startup.
*/
package domain
