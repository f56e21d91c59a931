/*
Package agent implements the per-domain client that decides where an operation runs.

An Agent either computes the operation in process against its local table or forwards it
to the domain's operation service over HTTP, and always answers with a domain.Result.

# Dispatch Order

  - LocalFirst (tabular, textual): a local success returns at once; an operation the local
    table does not hold, or one that fails locally, is sent to the service.
  - RemoteFirst (numeric): the service is asked first; when it fails the local table is
    tried, and when that also fails the service's failure is returned.

Remote failures are never retried. Successful remote results may be cached through
ports.ResultCache.
*/
package agent
