package collateral

// Compounding multiplier tables for the staking reward schedule. The schedule
// targets a 10% APY: the daily rate is 1.1^(1/365), the monthly rate its 30th
// power. Each entry is the compounded multiplier (1+rate)^n expressed as an
// exact rational numerator over ratioDenom, floored to six decimal places.
// The values are protocol constants; replacing them with a floating-point
// power function would break bit-identical accrual across deployments.
const ratioDenom = 1_000_000

// dayInterest[n] = (1.1^(1/365))^n for n in 0..29.
var dayInterest = [30]uint64{
	1000000,
	1000261,
	1000522,
	1000783,
	1001045,
	1001306,
	1001567,
	1001829,
	1002091,
	1002352,
	1002614,
	1002876,
	1003138,
	1003400,
	1003662,
	1003924,
	1004186,
	1004448,
	1004711,
	1004973,
	1005236,
	1005498,
	1005761,
	1006023,
	1006286,
	1006549,
	1006812,
	1007075,
	1007338,
	1007601,
}

// monthInterest[n] = (1.1^(30/365))^n for n in 0..11.
var monthInterest = [12]uint64{
	1000000,
	1007864,
	1015790,
	1023779,
	1031830,
	1039945,
	1048124,
	1056367,
	1064675,
	1073048,
	1081487,
	1089992,
}

// yearInterest[n] = 1.1^n for n in 0..99.
var yearInterest = [100]uint64{
	1000000,
	1100000,
	1210000,
	1331000,
	1464100,
	1610510,
	1771561,
	1948717,
	2143588,
	2357947,
	2593742,
	2853116,
	3138428,
	3452271,
	3797498,
	4177248,
	4594972,
	5054470,
	5559917,
	6115909,
	6727499,
	7400249,
	8140274,
	8954302,
	9849732,
	10834705,
	11918176,
	13109994,
	14420993,
	15863092,
	17449402,
	19194342,
	21113776,
	23225154,
	25547669,
	28102436,
	30912680,
	34003948,
	37404343,
	41144777,
	45259255,
	49785181,
	54763699,
	60240069,
	66264076,
	72890483,
	80179532,
	88197485,
	97017233,
	106718957,
	117390852,
	129129938,
	142042931,
	156247225,
	171871947,
	189059142,
	207965056,
	228761562,
	251637718,
	276801490,
	304481639,
	334929803,
	368422783,
	405265062,
	445791568,
	490370725,
	539407797,
	593348577,
	652683435,
	717951778,
	789746956,
	868721652,
	955593817,
	1051153199,
	1156268519,
	1271895371,
	1399084908,
	1538993399,
	1692892739,
	1862182013,
	2048400214,
	2253240236,
	2478564259,
	2726420685,
	2999062754,
	3298969029,
	3628865932,
	3991752525,
	4390927778,
	4830020556,
	5313022611,
	5844324873,
	6428757360,
	7071633096,
	7778796406,
	8556676046,
	9412343651,
	10353578016,
	11388935818,
	12527829399,
}
