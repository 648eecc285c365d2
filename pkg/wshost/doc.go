// Package wshost drives browser tabs over WebSocket connections.
//
// Each connected tab gets its own nav.State whose Host is the tab itself:
// the tab reports its initial location in a hello frame, and every
// PushState is sent back as a push frame that the page applies with
// history.pushState. An Outlet over the server's routes renders the matched
// view into render frames.
//
// Wire protocol (JSON text frames):
//
//	client -> server  {"type":"hello","location":"/users/7"}
//	server -> client  {"type":"ready","tab":"<uuid>"}
//	server -> client  {"type":"render","view":"user","pattern":"users/{id}","params":{"id":"7"}}
//	client -> server  {"type":"navigate","path":"/settings"}
//	server -> client  {"type":"push","path":"/settings"}
//	server -> client  {"type":"error","code":"E503","message":"..."}
//
// Mount the handler on any router:
//
//	srv := wshost.New(routes, nil)
//	http.ListenAndServe(":8080", srv.Handler())
package wshost
