// Package evaluation implements the answer evaluator: a pure, stateless
// comparison of a learner's submission against the catalog's ground truth
// for one exercise item. Free-text matching trims surrounding whitespace and
// case-folds, nothing more; diacritics and punctuation must match exactly.
package evaluation
