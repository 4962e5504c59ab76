// SPDX-License-Identifier: Apache-2.0

// Package client implements the marketplace client runtime.
//
// It wires the session manager, the job/bid ledger, the notification
// center, and the realtime subscription into a single process lifecycle:
// the realtime side starts when a session becomes active and stops on
// logout or shutdown.
package client
