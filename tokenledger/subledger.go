// Package tokenledger is the token-balance adapter this module transacts
// against. It sits beside ledger.Store rather than inside it, mirroring
// GalaChain's split between the generic world-state KV store and the
// token contract's own balance/allowance bookkeeping.
package tokenledger

import (
	"context"
	"encoding/json"

	"github.com/GalaChain/dex-sub000/dexmath/fixedpoint"
	"github.com/GalaChain/dex-sub000/ledger"
)

// TransferRequest moves amount of tokenClass from From to To.
type TransferRequest struct {
	TokenClass string
	From, To   string
	Amount     fixedpoint.Dec
}

// AllowanceQuery selects the allowances GrantedBy has extended to
// GrantedTo over TokenClass; an empty TokenClass matches every class.
type AllowanceQuery struct {
	GrantedBy, GrantedTo string
	TokenClass           string
}

// Allowance is one GrantedBy->GrantedTo spending permission.
type Allowance struct {
	GrantedBy, GrantedTo string
	TokenClass           string
	Amount               fixedpoint.Dec
}

// AllowancePage is the result of an AllowanceQuery.
type AllowancePage struct {
	Allowances []Allowance
}

// GrantAllowanceRequest extends an allowance of TokenClass from
// GrantedBy to GrantedTo.
type GrantAllowanceRequest struct {
	GrantedBy, GrantedTo string
	TokenClass           string
	Amount               fixedpoint.Dec
}

// DeleteAllowancesRequest revokes every allowance GrantedBy has extended
// to GrantedTo over TokenClass.
type DeleteAllowancesRequest struct {
	GrantedBy, GrantedTo string
	TokenClass           string
}

// Subledger is the balance-movement surface the concentrated-liquidity
// and limit-order keepers transact against. A real deployment backs
// this with the host chaincode's token contract; MemSubledger below is
// what tests and cmd/dexsimd run against.
type Subledger interface {
	BalanceOf(ctx context.Context, owner, tokenClass string) (fixedpoint.Dec, error)
	Transfer(ctx context.Context, req TransferRequest) error
	FetchAllowances(ctx context.Context, req AllowanceQuery) (AllowancePage, error)
	GrantAllowance(ctx context.Context, req GrantAllowanceRequest) error
	DeleteAllowances(ctx context.Context, req DeleteAllowancesRequest) error

	// Mint credits amount of tokenClass to holder out of nothing; used
	// only by test fixtures and the CLI harness to fund accounts, never
	// by keeper logic itself.
	Mint(ctx context.Context, tokenClass, holder string, amount fixedpoint.Dec) error
}

// InsufficientBalanceError is returned by Transfer when From does not
// hold enough of TokenClass.
type InsufficientBalanceError struct {
	TokenClass       string
	Holder           string
	Requested, Avail fixedpoint.Dec
}

func (e InsufficientBalanceError) Error() string {
	return "tokenledger: " + e.Holder + " holds insufficient " + e.TokenClass
}

func balanceKey(tokenClass, holder string) string {
	return "BALANCE|" + tokenClass + "|" + holder
}

func allowanceKey(tokenClass, grantedBy, grantedTo string) string {
	return "ALLOWANCE|" + tokenClass + "|" + grantedBy + "|" + grantedTo
}

// MemSubledger is a Subledger backed directly by a ledger.Store, storing
// each (tokenClass, holder) balance under its own composite key so it
// composes with the same RangeByPartialKey scan facility the pool
// keeper uses.
type MemSubledger struct {
	store ledger.Store
}

// NewMemSubledger returns a Subledger layered over store.
func NewMemSubledger(store ledger.Store) *MemSubledger {
	return &MemSubledger{store: store}
}

func (s *MemSubledger) BalanceOf(ctx context.Context, owner, tokenClass string) (fixedpoint.Dec, error) {
	var bal fixedpoint.Dec
	ok, err := ledger.GetJSON(ctx, s.store, balanceKey(tokenClass, owner), &bal)
	if err != nil {
		return fixedpoint.Zero, err
	}
	if !ok {
		return fixedpoint.Zero, nil
	}
	return bal, nil
}

func (s *MemSubledger) setBalance(ctx context.Context, tokenClass, holder string, amount fixedpoint.Dec) error {
	return ledger.PutJSON(ctx, s.store, balanceKey(tokenClass, holder), amount)
}

func (s *MemSubledger) Transfer(ctx context.Context, req TransferRequest) error {
	if req.Amount.IsZero() {
		return nil
	}
	fromBal, err := s.BalanceOf(ctx, req.From, req.TokenClass)
	if err != nil {
		return err
	}
	if fromBal.LessThan(req.Amount) {
		return InsufficientBalanceError{TokenClass: req.TokenClass, Holder: req.From, Requested: req.Amount, Avail: fromBal}
	}
	toBal, err := s.BalanceOf(ctx, req.To, req.TokenClass)
	if err != nil {
		return err
	}
	if err := s.setBalance(ctx, req.TokenClass, req.From, fromBal.Sub(req.Amount)); err != nil {
		return err
	}
	return s.setBalance(ctx, req.TokenClass, req.To, toBal.Add(req.Amount))
}

func (s *MemSubledger) Mint(ctx context.Context, tokenClass, holder string, amount fixedpoint.Dec) error {
	bal, err := s.BalanceOf(ctx, holder, tokenClass)
	if err != nil {
		return err
	}
	return s.setBalance(ctx, tokenClass, holder, bal.Add(amount))
}

func (s *MemSubledger) GrantAllowance(ctx context.Context, req GrantAllowanceRequest) error {
	return ledger.PutJSON(ctx, s.store, allowanceKey(req.TokenClass, req.GrantedBy, req.GrantedTo), Allowance{
		GrantedBy: req.GrantedBy, GrantedTo: req.GrantedTo, TokenClass: req.TokenClass, Amount: req.Amount,
	})
}

func (s *MemSubledger) DeleteAllowances(ctx context.Context, req DeleteAllowancesRequest) error {
	return s.store.Delete(ctx, allowanceKey(req.TokenClass, req.GrantedBy, req.GrantedTo))
}

func (s *MemSubledger) FetchAllowances(ctx context.Context, req AllowanceQuery) (AllowancePage, error) {
	prefix := "ALLOWANCE|"
	if req.TokenClass != "" {
		prefix += req.TokenClass + "|"
		if req.GrantedBy != "" {
			prefix += req.GrantedBy + "|"
		}
	}
	it, err := s.store.RangeByPartialKey(ctx, prefix)
	if err != nil {
		return AllowancePage{}, err
	}
	var page AllowancePage
	for _, v := range it {
		var a Allowance
		if err := json.Unmarshal(v, &a); err != nil {
			return AllowancePage{}, err
		}
		if req.GrantedTo != "" && a.GrantedTo != req.GrantedTo {
			continue
		}
		if req.GrantedBy != "" && a.GrantedBy != req.GrantedBy {
			continue
		}
		page.Allowances = append(page.Allowances, a)
	}
	return page, nil
}
