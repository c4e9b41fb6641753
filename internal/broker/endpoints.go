// Package broker adapts brokerage tool operations onto the backend REST API.
package broker

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Method is the HTTP method an operation is sent with.
type Method string

const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodDelete Method = http.MethodDelete
)

// allowedMethods is the whitelist of HTTP methods for operations.
var allowedMethods = map[Method]bool{
	MethodGet: true, MethodPost: true, MethodDelete: true,
}

// Param names one tool parameter.
type Param string

const (
	ParamID     Param = "id"
	ParamName   Param = "name"
	ParamSymbol Param = "symbol"
)

// ParamSpec declares a parameter an operation requires.
type ParamSpec struct {
	Name        Param
	Description string
}

// Operation is one backend action exposed as a tool.
// Path placeholders are written as {id}, {name} or {symbol}.
type Operation struct {
	Name        string
	Description string
	Method      Method
	Path        string
	Params      []ParamSpec
	Form        []Param // params sent as form fields instead of path segments
}

// Requires reports whether the operation needs the named parameter.
func (op Operation) Requires(name Param) bool {
	for _, p := range op.Params {
		if p.Name == name {
			return true
		}
	}
	return false
}

// Params is the parameter bundle for one call. Nil means not supplied; a
// blank string counts as not supplied. Supplied strings are used verbatim.
type Params struct {
	ID     *uint8
	Name   *string
	Symbol *string
}

func (p Params) value(name Param) (string, bool) {
	switch name {
	case ParamID:
		if p.ID == nil {
			return "", false
		}
		return strconv.FormatUint(uint64(*p.ID), 10), true
	case ParamName:
		if p.Name == nil || strings.TrimSpace(*p.Name) == "" {
			return "", false
		}
		return *p.Name, true
	case ParamSymbol:
		if p.Symbol == nil || strings.TrimSpace(*p.Symbol) == "" {
			return "", false
		}
		return *p.Symbol, true
	}
	return "", false
}

// Endpoint is a fully resolved backend request.
type Endpoint struct {
	Method Method
	URL    string
	Form   map[string]string // nil for requests without a body
}

func (e Endpoint) String() string {
	return fmt.Sprintf("%s %s", e.Method, e.URL)
}

var (
	watchlistIDParam = ParamSpec{Name: ParamID, Description: "Watchlist id (integer 0-255), as returned by get_account_watchlists"}
	symbolParam      = ParamSpec{Name: ParamSymbol, Description: "Stock ticker symbol, e.g. AAPL"}
)

// operations is the table of every tool the server exposes.
var operations = []Operation{
	{Name: "get_user_info", Description: "Get User Info", Method: MethodGet, Path: "/user-info"},
	{Name: "get_account_position", Description: "Get Account positions", Method: MethodGet, Path: "/position"},
	{Name: "get_account_balance", Description: "Get Account balance", Method: MethodGet, Path: "/balances"},
	{Name: "get_market_time", Description: "Get Market Time", Method: MethodGet, Path: "/market-time"},
	{Name: "get_account_history", Description: "Get Account history", Method: MethodGet, Path: "/history"},
	{Name: "get_account_watchlists", Description: "Get Account watchlists", Method: MethodGet, Path: "/watchlists"},
	{
		Name:        "get_watchlist_quote",
		Description: "Get Account watchlist quotes",
		Method:      MethodGet,
		Path:        "/watchlists/{id}",
		Params:      []ParamSpec{watchlistIDParam},
	},
	{
		Name:        "add_new_watchlist",
		Description: "Add a new Account watchlist",
		Method:      MethodPost,
		Path:        "/watchlists/{name}",
		Params:      []ParamSpec{{Name: ParamName, Description: "Name of the new watchlist"}},
	},
	{
		Name:        "delete_watchlist",
		Description: "Delete a watchlist",
		Method:      MethodDelete,
		Path:        "/watchlists/{id}",
		Params:      []ParamSpec{watchlistIDParam},
	},
	{
		Name:        "watchlist_add_symbol",
		Description: "Add a symbol to watchlist using watchlist id",
		Method:      MethodPost,
		Path:        "/watchlist/{id}",
		Params:      []ParamSpec{watchlistIDParam, {Name: ParamSymbol, Description: "Stock ticker symbol to add, e.g. AAPL"}},
		Form:        []Param{ParamSymbol},
	},
	{
		Name:        "watchlist_remove_symbol",
		Description: "Remove a symbol from watchlist, symbol id can be found inside watchlist quote",
		Method:      MethodDelete,
		Path:        "/watchlist/{id}",
		Params:      []ParamSpec{{Name: ParamID, Description: "Symbol id from get_watchlist_quote (integer 0-255)"}},
	},
	{Name: "get_single_quote", Description: "Get Single Stock Quote", Method: MethodGet, Path: "/stock-quote/{symbol}", Params: []ParamSpec{symbolParam}},
	{Name: "get_fundamental", Description: "Get Fundamental data for a stock", Method: MethodGet, Path: "/fundamental/{symbol}", Params: []ParamSpec{symbolParam}},
	{Name: "get_company_profile", Description: "Get Company Profile for a stock", Method: MethodGet, Path: "/company-profile/{symbol}", Params: []ParamSpec{symbolParam}},
	{Name: "get_cash_dividend", Description: "Get Cash Dividend for a stock", Method: MethodGet, Path: "/cash-dividend/{symbol}", Params: []ParamSpec{symbolParam}},
	{Name: "get_corp_calendar", Description: "Get Corporate Calendar for a stock", Method: MethodGet, Path: "/corp-calendar/{symbol}", Params: []ParamSpec{symbolParam}},
}

// Operations returns a copy of the operation table.
func Operations() []Operation {
	result := make([]Operation, len(operations))
	copy(result, operations)
	return result
}

// lookup finds an operation by tool name.
func lookup(name string) (Operation, bool) {
	for _, op := range operations {
		if op.Name == name {
			return op, true
		}
	}
	return Operation{}, false
}

// placeholders returns the {param} names in a path template, in order.
func placeholders(path string) ([]Param, error) {
	var names []Param
	for rest := path; ; {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			if strings.IndexByte(rest, '}') >= 0 {
				return nil, fmt.Errorf("unbalanced '}' in path %q", path)
			}
			return names, nil
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			return nil, fmt.Errorf("unbalanced '{' in path %q", path)
		}
		names = append(names, Param(rest[open+1:open+end]))
		rest = rest[open+end+1:]
	}
}

// ValidateOperation checks a single operation definition.
func ValidateOperation(op Operation) error {
	if op.Name == "" {
		return fmt.Errorf("operation has empty name")
	}
	if !allowedMethods[op.Method] {
		return fmt.Errorf("operation %q has unsupported method %q", op.Name, op.Method)
	}
	if !strings.HasPrefix(op.Path, "/") {
		return fmt.Errorf("operation %q has invalid path %q (must start with /)", op.Name, op.Path)
	}
	if strings.Contains(op.Path, "..") {
		return fmt.Errorf("operation %q has invalid path %q (contains ..)", op.Name, op.Path)
	}

	names, err := placeholders(op.Path)
	if err != nil {
		return fmt.Errorf("operation %q: %w", op.Name, err)
	}
	used := make(map[Param]bool, len(op.Params))
	for _, n := range names {
		if !op.Requires(n) {
			return fmt.Errorf("operation %q uses undeclared parameter {%s}", op.Name, n)
		}
		used[n] = true
	}
	for _, f := range op.Form {
		if !op.Requires(f) {
			return fmt.Errorf("operation %q sends undeclared form field %q", op.Name, f)
		}
		if op.Method != MethodPost {
			return fmt.Errorf("operation %q sends a form with method %s", op.Name, op.Method)
		}
		used[f] = true
	}
	for _, p := range op.Params {
		if !used[p.Name] {
			return fmt.Errorf("operation %q declares unused parameter %q", op.Name, p.Name)
		}
	}
	return nil
}

// ValidateOperations checks every operation and rejects duplicate names.
func ValidateOperations(ops []Operation) error {
	seen := make(map[string]bool, len(ops))
	for _, op := range ops {
		if err := ValidateOperation(op); err != nil {
			return err
		}
		if seen[op.Name] {
			return fmt.Errorf("duplicate operation %q", op.Name)
		}
		seen[op.Name] = true
	}
	return nil
}

// CheckParams returns a missing-parameter error for the first required
// parameter of op that p does not carry.
func CheckParams(op Operation, p Params) error {
	for _, spec := range op.Params {
		if _, ok := p.value(spec.Name); !ok {
			return MissingParameter(op.Name, string(spec.Name))
		}
	}
	return nil
}

// Resolve maps an operation and its parameters to a backend request.
// base is the backend address, e.g. "localhost:3001". Interpolated segments
// are path-escaped; URL-safe values pass through unchanged. No I/O happens here.
func Resolve(base string, op Operation, p Params) (Endpoint, error) {
	if err := CheckParams(op, p); err != nil {
		return Endpoint{}, err
	}

	path := op.Path
	for _, spec := range op.Params {
		val, _ := p.value(spec.Name)
		path = strings.ReplaceAll(path, "{"+string(spec.Name)+"}", url.PathEscape(val))
	}

	var form map[string]string
	if len(op.Form) > 0 {
		form = make(map[string]string, len(op.Form))
		for _, f := range op.Form {
			val, _ := p.value(f)
			form[string(f)] = val
		}
	}

	return Endpoint{
		Method: op.Method,
		URL:    strings.TrimRight(base, "/") + path,
		Form:   form,
	}, nil
}
