package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"palletchain/core"
	"palletchain/core/types"
	"palletchain/native/balances"
	"palletchain/native/claims"
	"palletchain/scenario"
)

type runReport struct {
	RunID         string          `json:"runId"`
	Scenario      string          `json:"scenario,omitempty"`
	Blocks        []blockReport   `json:"blocks"`
	BlockNumber   uint64          `json:"blockNumber"`
	TotalIssuance string          `json:"totalIssuance"`
	Accounts      []accountReport `json:"accounts"`
	Claims        []claimReport   `json:"claims,omitempty"`

	accounts []types.AccountID
	contents [][]byte
}

type blockReport struct {
	Number     uint64            `json:"number"`
	StateRoot  string            `json:"stateRoot"`
	Extrinsics []extrinsicReport `json:"extrinsics"`
	Events     []types.Event     `json:"events"`
}

type extrinsicReport struct {
	Index  int    `json:"index"`
	Caller string `json:"caller"`
	Call   string `json:"call"`
	OK     bool   `json:"ok"`
	Module string `json:"module,omitempty"`
	Kind   string `json:"kind,omitempty"`
	Error  string `json:"error,omitempty"`
}

type accountReport struct {
	Account string `json:"account"`
	Balance string `json:"balance"`
	Nonce   uint64 `json:"nonce"`
}

type claimReport struct {
	Content string `json:"content"`
	Owner   string `json:"owner"`
}

func newRunReport(runID string, sc *scenario.Scenario) *runReport {
	r := &runReport{RunID: runID, Scenario: sc.Name}
	seenAccounts := map[types.AccountID]struct{}{}
	addAccount := func(id types.AccountID) {
		if _, ok := seenAccounts[id]; ok || id.IsZero() {
			return
		}
		seenAccounts[id] = struct{}{}
		r.accounts = append(r.accounts, id)
	}
	seenContent := map[string]struct{}{}
	addContent := func(content []byte) {
		if _, ok := seenContent[string(content)]; ok {
			return
		}
		seenContent[string(content)] = struct{}{}
		r.contents = append(r.contents, content)
	}

	for id := range sc.Genesis.Balances {
		addAccount(id)
	}
	for _, xts := range sc.Blocks {
		for _, xt := range xts {
			addAccount(xt.Caller)
			switch call := xt.Call.(type) {
			case core.BalancesCall:
				if transfer, ok := call.Call.(balances.Transfer); ok {
					addAccount(transfer.To)
				}
			case core.ClaimsCall:
				switch c := call.Call.(type) {
				case claims.CreateClaim:
					addContent(c.Content)
				case claims.RevokeClaim:
					addContent(c.Content)
				}
			}
		}
	}
	sort.Slice(r.accounts, func(i, j int) bool { return r.accounts[i] < r.accounts[j] })
	return r
}

func (r *runReport) addBlock(receipt *core.Receipt) {
	block := blockReport{
		Number:     receipt.Number,
		StateRoot:  hex.EncodeToString(receipt.StateRoot[:]),
		Extrinsics: make([]extrinsicReport, 0, len(receipt.Results)),
		Events:     receipt.Events,
	}
	for _, res := range receipt.Results {
		entry := extrinsicReport{
			Index:  res.Index,
			Caller: res.Caller.String(),
			Call:   res.Pallet + "." + res.Call,
			OK:     res.OK(),
		}
		if de, ok := core.AsDispatchError(res.Err); ok {
			entry.Module, entry.Kind = de.Module(), de.Kind()
		}
		if res.Err != nil {
			entry.Error = res.Err.Error()
		}
		block.Extrinsics = append(block.Extrinsics, entry)
	}
	r.Blocks = append(r.Blocks, block)
}

// snapshot records the final state of every account and claim the scenario
// touched.
func (r *runReport) snapshot(rt *core.Runtime) error {
	number, err := rt.BlockNumber()
	if err != nil {
		return err
	}
	r.BlockNumber = number
	total, err := rt.TotalIssuance()
	if err != nil {
		return err
	}
	r.TotalIssuance = total.Dec()

	for _, id := range r.accounts {
		balance, err := rt.Balance(id)
		if err != nil {
			return err
		}
		nonce, err := rt.Nonce(id)
		if err != nil {
			return err
		}
		r.Accounts = append(r.Accounts, accountReport{Account: id.String(), Balance: balance.Dec(), Nonce: nonce})
	}
	for _, content := range r.contents {
		owner, ok, err := rt.ClaimOwner(content)
		if err != nil {
			return err
		}
		if ok {
			r.Claims = append(r.Claims, claimReport{Content: string(content), Owner: owner.String()})
		}
	}
	return nil
}

func (r *runReport) writeJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func (r *runReport) writeText(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "run %s", r.RunID)
	if r.Scenario != "" {
		fmt.Fprintf(&b, " (%s)", r.Scenario)
	}
	b.WriteString("\n")
	for _, block := range r.Blocks {
		fmt.Fprintf(&b, "block #%d root=%s\n", block.Number, block.StateRoot)
		for _, xt := range block.Extrinsics {
			outcome := "ok"
			if !xt.OK {
				outcome = fmt.Sprintf("err %s.%s", xt.Module, xt.Kind)
			}
			fmt.Fprintf(&b, "  [%d] %-8s %-20s %s\n", xt.Index, xt.Caller, xt.Call, outcome)
		}
	}
	fmt.Fprintf(&b, "block number: %d\n", r.BlockNumber)
	fmt.Fprintf(&b, "total issuance: %s\n", r.TotalIssuance)
	for _, acct := range r.Accounts {
		fmt.Fprintf(&b, "  %-8s balance=%s nonce=%d\n", acct.Account, acct.Balance, acct.Nonce)
	}
	for _, claim := range r.Claims {
		fmt.Fprintf(&b, "  claim %q owned by %s\n", claim.Content, claim.Owner)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
