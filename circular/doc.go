// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package circular provides small sizing helpers for circular/sliding-window
// data structures. svassembly's assembly package uses NextExp2 to pick the
// initial power-of-two capacity of the TraversalNode arena's per-shard
// free-lists and of the assembly driver's consumed-position tracker.
package circular
