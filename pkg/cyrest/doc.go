// Package cyrest is a client for the Cytoscape CyREST API (v1).
//
// # Overview
//
// [Client] wraps the handful of endpoints needed to publish a network and
// style it:
//
//   - [Client.CreateNetwork]: POST /networks with a .cyjs document
//   - [Client.ApplyLayout]: GET /apply/layouts/{layout}/{suid}
//   - [Client.DeleteStyles]: DELETE /styles
//   - [Client.CreateStyle]: POST /styles with a visual style
//   - [Client.ApplyStyle]: GET /apply/styles/{title}/{suid}
//
// plus [Client.Layouts] and [Client.Status] for discovery.
//
// # Failure model
//
// Every call is a single blocking request. There are no retries and, unless
// [WithTimeout] is given, no timeout beyond what the transport imposes.
// Failures are reported as structured errors from the errors package:
//
//   - NETWORK_ERROR: the request never got a response
//   - HTTP_STATUS: the server answered outside 2xx (cause is *errors.StatusError)
//   - SCHEMA_ERROR: the reply was not the JSON shape the call expects, for
//     example a network reply without networkSUID
//
// # Request IDs
//
// A request id attached with [WithRequestID] is sent as X-Request-ID so a
// whole push run can be correlated in proxy logs.
package cyrest
