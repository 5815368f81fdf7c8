package rpc

import (
	"net/http"
)

func (s *Server) handleStableTransfer(w http.ResponseWriter, req *RPCRequest) error {
	var params transferParams
	if err := singleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return err
	}
	amount, err := decodeAmount(params.Amount)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return err
	}
	if err := s.stable.Transfer(params.From, params.To, amount); err != nil {
		writeEngineError(w, req.ID, err)
		return err
	}
	writeResult(w, req.ID, ackOK)
	return nil
}

func (s *Server) handleStableTotalSupply(w http.ResponseWriter, req *RPCRequest) error {
	supply, err := s.stable.TotalSupply()
	if err != nil {
		writeEngineError(w, req.ID, err)
		return err
	}
	writeResult(w, req.ID, supply.String())
	return nil
}

func (s *Server) handleStableBalance(w http.ResponseWriter, req *RPCRequest) error {
	var params accountParams
	if err := singleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return err
	}
	balance, err := s.stable.BalanceOf(params.Account)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return err
	}
	writeResult(w, req.ID, balanceResult{Account: params.Account, Amount: balance.String()})
	return nil
}
