package fptree

import (
	"strings"

	U "fpmine/util"

	"github.com/pkg/errors"
)

// KeyDelimiter joins item names in a canonical itemset key.
const KeyDelimiter = ","

// Transaction is one record of the dataset. Weight must be at least 1;
// NewTransaction and Transactions set it to 1.
type Transaction struct {
	Items  []string
	Weight int
}

func NewTransaction(items ...string) Transaction {
	return Transaction{Items: items, Weight: 1}
}

// Transactions wraps unweighted rows.
func Transactions(rows [][]string) []Transaction {
	trns := make([]Transaction, 0, len(rows))
	for _, row := range rows {
		trns = append(trns, NewTransaction(row...))
	}
	return trns
}

func (tr Transaction) validate(idx int) error {
	if tr.Weight < 1 {
		return errors.Wrapf(ErrInvalidInput, "transaction %d has weight %d, must be at least 1", idx, tr.Weight)
	}
	for _, itm := range tr.Items {
		if itm == "" {
			return errors.Wrapf(ErrInvalidInput, "transaction %d has an empty item name", idx)
		}
		if strings.Contains(itm, KeyDelimiter) {
			return errors.Wrapf(ErrInvalidInput, "transaction %d item %q contains %q", idx, itm, KeyDelimiter)
		}
	}
	return nil
}

// CountSupport returns the summed weight of the transactions containing
// each item. An item repeated inside one transaction is counted once.
// Weights are summed as given; BuildTree rejects weights below 1.
func CountSupport(trns []Transaction) map[string]int {
	support, _ := countSupport(trns)
	return support
}

// countSupport also returns the items in order of first appearance, which
// breaks ties between items of equal support.
func countSupport(trns []Transaction) (map[string]int, []string) {
	support := make(map[string]int)
	firstSeen := make([]string, 0)
	for _, tr := range trns {
		w := tr.Weight
		for _, itm := range U.MakeUniqueTrans(tr.Items) {
			if _, ok := support[itm]; !ok {
				firstSeen = append(firstSeen, itm)
			}
			support[itm] += w
		}
	}
	return support, firstSeen
}
