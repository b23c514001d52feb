package router

// Segment tree keyed by path segments. Lookup prefers static segments,
// then {param} segments, then a trailing catch-all "*", backtracking
// when a branch does not end on a registered endpoint.

import (
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"sort"
	"strings"

	"github.com/dmitrymomot/truthapi/core/handler"
)

type methodTyp uint

const (
	mCONNECT methodTyp = 1 << iota
	mDELETE
	mGET
	mHEAD
	mOPTIONS
	mPATCH
	mPOST
	mPUT
	mTRACE
)

var methodMap = map[string]methodTyp{
	http.MethodConnect: mCONNECT,
	http.MethodDelete:  mDELETE,
	http.MethodGet:     mGET,
	http.MethodHead:    mHEAD,
	http.MethodOptions: mOPTIONS,
	http.MethodPatch:   mPATCH,
	http.MethodPost:    mPOST,
	http.MethodPut:     mPUT,
	http.MethodTrace:   mTRACE,
}

var reverseMethodMap = map[methodTyp]string{
	mCONNECT: http.MethodConnect,
	mDELETE:  http.MethodDelete,
	mGET:     http.MethodGet,
	mHEAD:    http.MethodHead,
	mOPTIONS: http.MethodOptions,
	mPATCH:   http.MethodPatch,
	mPOST:    http.MethodPost,
	mPUT:     http.MethodPut,
	mTRACE:   http.MethodTrace,
}

type node[C handler.Context] struct {
	static    map[string]*node[C]
	param     *node[C]
	catchAll  *node[C]
	name      string // parameter name for param nodes
	endpoints endpoints[C]
}

// endpoints is a mapping of http method constants to handlers
// for a given route.
type endpoints[C handler.Context] map[methodTyp]*endpoint[C]

type endpoint[C handler.Context] struct {
	handler   handler.HandlerFunc[C]
	pattern   string
	paramKeys []string
}

func (s endpoints[C]) allowed() []string {
	allowed := make([]string, 0, len(s))
	for mt, ep := range s {
		if ep != nil && ep.handler != nil {
			allowed = append(allowed, reverseMethodMap[mt])
		}
	}
	sort.Strings(allowed)
	return allowed
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func (n *node[C]) insertRoute(method methodTyp, pattern string, h handler.HandlerFunc[C]) *node[C] {
	segments := splitPath(pattern)
	keys := make([]string, 0, len(segments))
	cur := n

	for i, seg := range segments {
		switch {
		case seg == "*":
			if i != len(segments)-1 {
				panic(fmt.Errorf("%w: '%s'", ErrWildcardPosition, pattern))
			}
			if cur.catchAll == nil {
				cur.catchAll = &node[C]{name: "*"}
			}
			keys = append(keys, "*")
			cur = cur.catchAll

		case strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}"):
			name := seg[1 : len(seg)-1]
			if name == "" || strings.ContainsAny(name, "{}/") {
				panic(fmt.Errorf("%w: '%s'", ErrInvalidPattern, pattern))
			}
			if slices.Contains(keys, name) {
				panic(fmt.Errorf("%w: '%s' in '%s'", ErrDuplicateParam, name, pattern))
			}
			if cur.param == nil {
				cur.param = &node[C]{name: name}
			} else if cur.param.name != name {
				panic(fmt.Errorf("%w: '{%s}' and '{%s}' in '%s'", ErrParamConflict, cur.param.name, name, pattern))
			}
			keys = append(keys, name)
			cur = cur.param

		default:
			if strings.ContainsAny(seg, "{}") {
				panic(fmt.Errorf("%w: '%s'", ErrInvalidPattern, pattern))
			}
			if cur.static == nil {
				cur.static = make(map[string]*node[C])
			}
			child, ok := cur.static[seg]
			if !ok {
				child = &node[C]{}
				cur.static[seg] = child
			}
			cur = child
		}
	}

	if cur.endpoints == nil {
		cur.endpoints = make(endpoints[C])
	}
	for mt := range reverseMethodMap {
		if method&mt == 0 {
			continue
		}
		cur.endpoints[mt] = &endpoint[C]{
			handler:   h,
			pattern:   pattern,
			paramKeys: keys,
		}
	}

	return cur
}

// findRoute returns the endpoints of the matched node, the handler for the method
// (nil when the method is not registered) and the extracted path parameters.
func (n *node[C]) findRoute(method methodTyp, path string) (endpoints[C], handler.HandlerFunc[C], map[string]string) {
	leaf, values := n.match(splitPath(path), nil)
	if leaf == nil {
		return nil, nil, nil
	}

	ep, ok := leaf.endpoints[method]
	if !ok || ep.handler == nil {
		return leaf.endpoints, nil, nil
	}

	var params map[string]string
	if len(ep.paramKeys) > 0 {
		params = make(map[string]string, len(ep.paramKeys))
		for i, key := range ep.paramKeys {
			if i >= len(values) {
				break
			}
			v := values[i]
			if unescaped, err := url.PathUnescape(v); err == nil {
				v = unescaped
			}
			params[key] = v
		}
	}

	return leaf.endpoints, ep.handler, params
}

func (n *node[C]) match(segments []string, values []string) (*node[C], []string) {
	if len(segments) == 0 {
		if len(n.endpoints) > 0 {
			return n, values
		}
		if n.catchAll != nil && len(n.catchAll.endpoints) > 0 {
			return n.catchAll, append(values, "")
		}
		return nil, nil
	}

	seg := segments[0]
	if child, ok := n.static[seg]; ok {
		if leaf, v := child.match(segments[1:], values); leaf != nil {
			return leaf, v
		}
	}

	if n.param != nil && seg != "" {
		if leaf, v := n.param.match(segments[1:], append(values, seg)); leaf != nil {
			return leaf, v
		}
	}

	if n.catchAll != nil && len(n.catchAll.endpoints) > 0 {
		return n.catchAll, append(values, strings.Join(segments, "/"))
	}

	return nil, nil
}

func (n *node[C]) routes() []Route {
	var routes []Route
	n.walk(func(eps endpoints[C]) {
		for mt, ep := range eps {
			routes = append(routes, Route{Method: reverseMethodMap[mt], Pattern: ep.pattern})
		}
	})
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Pattern == routes[j].Pattern {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Pattern < routes[j].Pattern
	})
	return routes
}

func (n *node[C]) walk(fn func(endpoints[C])) {
	if len(n.endpoints) > 0 {
		fn(n.endpoints)
	}
	for _, child := range n.static {
		child.walk(fn)
	}
	if n.param != nil {
		n.param.walk(fn)
	}
	if n.catchAll != nil {
		n.catchAll.walk(fn)
	}
}
