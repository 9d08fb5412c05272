// Package approvalflow provides a hierarchical content approval engine.
//
// A workflow instance is started for a content path and moves through
// approval levels. Each level is routed to an approver group, decisions are
// appended to an audit history, steps waiting too long are escalated once
// and the finished instance produces a completion notification:
//
//	srv, _ := approvalflow.New(ctx)
//	rt := srv.Runtime()
//	wf, _ := rt.Start(ctx, "/content/site/marketing/page", "author", nil)
//	group, _ := rt.Route(ctx, wf.ID)
//	_, _ = rt.Decide(ctx, wf.ID, &decision.Request{Args: "DECISION:approve", Approver: "alice"})
//	summary, _ := rt.Finalize(ctx, wf.ID)
//
// Instances are persisted through service/dao (memory, fs, redis or pg) with
// optimistic versioning, and completion events are published on
// service/event queues.
package approvalflow
