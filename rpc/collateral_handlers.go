package rpc

import (
	"fmt"
	"math/big"
	"net/http"

	"artledger/native/collateral"
)

type ackResult struct {
	Status string `json:"status"`
}

var ackOK = ackResult{Status: "ok"}

type fromParams struct {
	From string `json:"from"`
}

type priceParams struct {
	From  string `json:"from"`
	Price string `json:"price"`
}

type assetPriceParams struct {
	From  string `json:"from"`
	Asset string `json:"asset"`
	Price string `json:"price"`
}

type amountParams struct {
	From   string `json:"from"`
	Amount string `json:"amount"`
}

type transferParams struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

type transferFromParams struct {
	From   string `json:"from"`
	Owner  string `json:"owner"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

type allowanceSetParams struct {
	From      string `json:"from"`
	Escrow    string `json:"escrow"`
	Allowance string `json:"allowance"`
}

type assetAmountParams struct {
	From   string `json:"from"`
	Asset  string `json:"asset"`
	Amount string `json:"amount"`
}

type unregisterParams struct {
	From  string `json:"from"`
	Force bool   `json:"force"`
}

type accountParams struct {
	Account string `json:"account"`
}

type allowanceQueryParams struct {
	Owner  string `json:"owner"`
	Escrow string `json:"escrow"`
}

type assetBalanceParams struct {
	Account string `json:"account"`
	Asset   string `json:"asset"`
}

type assetParams struct {
	Asset string `json:"asset"`
}

type balanceResult struct {
	Account string `json:"account"`
	Amount  string `json:"amount"`
}

type refreshResult struct {
	Accrued bool `json:"accrued"`
}

func decodeAmount(raw string) (*big.Int, error) {
	amount, err := collateral.ParseAmount(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, raw)
	}
	return amount, nil
}

func (s *Server) handleCollateralSubmitPrice(w http.ResponseWriter, req *RPCRequest) error {
	var params priceParams
	if err := singleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return err
	}
	price, err := decodeAmount(params.Price)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return err
	}
	if err := s.collateral.SubmitPrice(params.From, price); err != nil {
		writeEngineError(w, req.ID, err)
		return err
	}
	writeResult(w, req.ID, ackOK)
	return nil
}

func (s *Server) handleCollateralSubmitAssetPrice(w http.ResponseWriter, req *RPCRequest) error {
	var params assetPriceParams
	if err := singleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return err
	}
	price, err := decodeAmount(params.Price)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return err
	}
	if err := s.collateral.SubmitAssetPrice(params.From, params.Asset, price); err != nil {
		writeEngineError(w, req.ID, err)
		return err
	}
	writeResult(w, req.ID, ackOK)
	return nil
}

func (s *Server) handleCollateralStakeAndMint(w http.ResponseWriter, req *RPCRequest) error {
	var params amountParams
	if err := singleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return err
	}
	amount, err := decodeAmount(params.Amount)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return err
	}
	if err := s.collateral.StakeAndMint(params.From, amount); err != nil {
		writeEngineError(w, req.ID, err)
		return err
	}
	writeResult(w, req.ID, ackOK)
	return nil
}

func (s *Server) handleCollateralBurnToUnstake(w http.ResponseWriter, req *RPCRequest) error {
	var params amountParams
	if err := singleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return err
	}
	amount, err := decodeAmount(params.Amount)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return err
	}
	if err := s.collateral.BurnToUnstake(params.From, amount); err != nil {
		writeEngineError(w, req.ID, err)
		return err
	}
	writeResult(w, req.ID, ackOK)
	return nil
}

func (s *Server) handleCollateralRefreshReward(w http.ResponseWriter, req *RPCRequest) error {
	var params fromParams
	if err := singleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return err
	}
	accrued, err := s.collateral.RefreshReward(params.From)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return err
	}
	writeResult(w, req.ID, refreshResult{Accrued: accrued})
	return nil
}

func (s *Server) handleCollateralTransfer(w http.ResponseWriter, req *RPCRequest) error {
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
	if err := s.collateral.Transfer(params.From, params.To, amount); err != nil {
		writeEngineError(w, req.ID, err)
		return err
	}
	writeResult(w, req.ID, ackOK)
	return nil
}

func (s *Server) handleCollateralTransferFrom(w http.ResponseWriter, req *RPCRequest) error {
	var params transferFromParams
	if err := singleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return err
	}
	amount, err := decodeAmount(params.Amount)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return err
	}
	if err := s.collateral.TransferFrom(params.From, params.Owner, params.To, amount); err != nil {
		writeEngineError(w, req.ID, err)
		return err
	}
	writeResult(w, req.ID, ackOK)
	return nil
}

func (s *Server) handleCollateralSetAllowance(w http.ResponseWriter, req *RPCRequest) error {
	var params allowanceSetParams
	if err := singleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return err
	}
	allowance, err := decodeAmount(params.Allowance)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return err
	}
	if err := s.collateral.SetAllowance(params.From, params.Escrow, allowance); err != nil {
		writeEngineError(w, req.ID, err)
		return err
	}
	writeResult(w, req.ID, ackOK)
	return nil
}

func (s *Server) handleCollateralSellAsset(w http.ResponseWriter, req *RPCRequest) error {
	var params assetAmountParams
	if err := singleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return err
	}
	amount, err := decodeAmount(params.Amount)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return err
	}
	if err := s.collateral.SellAssetToAUSD(params.From, params.Asset, amount); err != nil {
		writeEngineError(w, req.ID, err)
		return err
	}
	writeResult(w, req.ID, ackOK)
	return nil
}

func (s *Server) handleCollateralBuyAsset(w http.ResponseWriter, req *RPCRequest) error {
	var params assetAmountParams
	if err := singleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return err
	}
	amount, err := decodeAmount(params.Amount)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return err
	}
	if err := s.collateral.BuyAssetWithAUSD(params.From, params.Asset, amount); err != nil {
		writeEngineError(w, req.ID, err)
		return err
	}
	writeResult(w, req.ID, ackOK)
	return nil
}

func (s *Server) handleCollateralBuyWithNative(w http.ResponseWriter, req *RPCRequest) error {
	var params amountParams
	if err := singleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return err
	}
	deposit, err := decodeAmount(params.Amount)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return err
	}
	if err := s.collateral.BuyCollateralWithNative(params.From, deposit); err != nil {
		writeEngineError(w, req.ID, err)
		return err
	}
	writeResult(w, req.ID, ackOK)
	return nil
}

func (s *Server) handleCollateralBuyStableWithNative(w http.ResponseWriter, req *RPCRequest) error {
	var params amountParams
	if err := singleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return err
	}
	deposit, err := decodeAmount(params.Amount)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return err
	}
	if err := s.collateral.BuyStableWithNative(params.From, deposit); err != nil {
		writeEngineError(w, req.ID, err)
		return err
	}
	writeResult(w, req.ID, ackOK)
	return nil
}

func (s *Server) handleCollateralExchangeToAUSD(w http.ResponseWriter, req *RPCRequest) error {
	var params amountParams
	if err := singleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return err
	}
	amount, err := decodeAmount(params.Amount)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return err
	}
	if err := s.collateral.ExchangeCollateralToAUSD(params.From, amount); err != nil {
		writeEngineError(w, req.ID, err)
		return err
	}
	writeResult(w, req.ID, ackOK)
	return nil
}

func (s *Server) handleCollateralExchangeFromAUSD(w http.ResponseWriter, req *RPCRequest) error {
	var params amountParams
	if err := singleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return err
	}
	amount, err := decodeAmount(params.Amount)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return err
	}
	if err := s.collateral.ExchangeAUSDToCollateral(params.From, amount); err != nil {
		writeEngineError(w, req.ID, err)
		return err
	}
	writeResult(w, req.ID, ackOK)
	return nil
}

func (s *Server) handleCollateralRegisterAccount(w http.ResponseWriter, req *RPCRequest) error {
	var params fromParams
	if err := singleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return err
	}
	if err := s.collateral.RegisterAccount(params.From); err != nil {
		writeEngineError(w, req.ID, err)
		return err
	}
	writeResult(w, req.ID, ackOK)
	return nil
}

func (s *Server) handleCollateralUnregisterAccount(w http.ResponseWriter, req *RPCRequest) error {
	var params unregisterParams
	if err := singleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return err
	}
	if err := s.collateral.UnregisterAccount(params.From, params.Force); err != nil {
		writeEngineError(w, req.ID, err)
		return err
	}
	writeResult(w, req.ID, ackOK)
	return nil
}

func (s *Server) handleCollateralTotalSupply(w http.ResponseWriter, req *RPCRequest) error {
	supply, err := s.collateral.TotalSupply()
	if err != nil {
		writeEngineError(w, req.ID, err)
		return err
	}
	writeResult(w, req.ID, supply.String())
	return nil
}

func (s *Server) handleCollateralTotalStaked(w http.ResponseWriter, req *RPCRequest) error {
	staked, err := s.collateral.TotalStaked()
	if err != nil {
		writeEngineError(w, req.ID, err)
		return err
	}
	writeResult(w, req.ID, staked.String())
	return nil
}

func (s *Server) handleCollateralBalance(w http.ResponseWriter, req *RPCRequest) error {
	var params accountParams
	if err := singleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return err
	}
	balance, err := s.collateral.FreeBalance(params.Account)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return err
	}
	writeResult(w, req.ID, balanceResult{Account: params.Account, Amount: balance.String()})
	return nil
}

func (s *Server) handleCollateralStakedBalance(w http.ResponseWriter, req *RPCRequest) error {
	var params accountParams
	if err := singleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return err
	}
	balance, err := s.collateral.StakedBalance(params.Account)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return err
	}
	writeResult(w, req.ID, balanceResult{Account: params.Account, Amount: balance.String()})
	return nil
}

func (s *Server) handleCollateralTotalBalance(w http.ResponseWriter, req *RPCRequest) error {
	var params accountParams
	if err := singleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return err
	}
	balance, err := s.collateral.TotalBalance(params.Account)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return err
	}
	writeResult(w, req.ID, balanceResult{Account: params.Account, Amount: balance.String()})
	return nil
}

func (s *Server) handleCollateralAllowance(w http.ResponseWriter, req *RPCRequest) error {
	var params allowanceQueryParams
	if err := singleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return err
	}
	allowance, err := s.collateral.Allowance(params.Owner, params.Escrow)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return err
	}
	writeResult(w, req.ID, allowance.String())
	return nil
}

func (s *Server) handleCollateralPrice(w http.ResponseWriter, req *RPCRequest) error {
	price, err := s.collateral.Price()
	if err != nil {
		writeEngineError(w, req.ID, err)
		return err
	}
	writeResult(w, req.ID, price.String())
	return nil
}

func (s *Server) handleCollateralAssetPrice(w http.ResponseWriter, req *RPCRequest) error {
	var params assetParams
	if err := singleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return err
	}
	price, err := s.collateral.AssetPrice(params.Asset)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return err
	}
	writeResult(w, req.ID, price.String())
	return nil
}

func (s *Server) handleCollateralAssetBalance(w http.ResponseWriter, req *RPCRequest) error {
	var params assetBalanceParams
	if err := singleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return err
	}
	balance, err := s.collateral.AssetBalance(params.Account, params.Asset)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return err
	}
	writeResult(w, req.ID, balanceResult{Account: params.Account, Amount: balance.String()})
	return nil
}

func (s *Server) handleCollateralRewardPaidAt(w http.ResponseWriter, req *RPCRequest) error {
	var params accountParams
	if err := singleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return err
	}
	paidAt, err := s.collateral.RewardPaidAt(params.Account)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return err
	}
	writeResult(w, req.ID, paidAt)
	return nil
}

func (s *Server) handleCollateralOwner(w http.ResponseWriter, req *RPCRequest) error {
	owner, err := s.collateral.Owner()
	if err != nil {
		writeEngineError(w, req.ID, err)
		return err
	}
	writeResult(w, req.ID, owner)
	return nil
}
