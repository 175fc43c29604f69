// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package attrcache memoizes expensive attribute lookups on the object that owns
// them. Each object embeds a Store; each cached property is declared once as an
// Attr with a stable name and a TTL. The first read computes and stores the value,
// later reads inside the TTL window return it, and Forever attributes are computed
// at most once per Store.
//
//	var nameAttr = attrcache.NewAttr[string]("name", attrcache.Forever)
//
//	func (a *App) Name(ctx context.Context) (string, error) {
//		return nameAttr.Get(&a.cache, func() (string, error) {
//			return a.fetchName(ctx)
//		})
//	}
package attrcache
